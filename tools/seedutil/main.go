package main

import (
	"fmt"
	"os"
	"strconv"

	"voidreach-server/pkg/utils"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "new":
		fmt.Println(utils.NewSeed())
	case "joincode":
		if len(os.Args) < 3 {
			fmt.Println("Usage: seedutil joincode <seed>")
			return
		}
		seed, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			fmt.Printf("Invalid seed: %v\n", err)
			return
		}
		fmt.Println(utils.NewJoinCode(utils.NewRand(utils.SubSeed(seed, "join-code"))))
	case "sub":
		if len(os.Args) < 4 {
			fmt.Println("Usage: seedutil sub <seed> <label>")
			return
		}
		seed, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			fmt.Printf("Invalid seed: %v\n", err)
			return
		}
		fmt.Println(utils.SubSeed(seed, os.Args[3]))
	case "fromstring":
		if len(os.Args) < 3 {
			fmt.Println("Usage: seedutil fromstring <text>")
			return
		}
		fmt.Println(utils.StringToSeed(os.Args[2]))
	default:
		printHelp()
	}
}

func printHelp() {
	fmt.Println(`Seed Utility - работа с зернами сессий
Commands:
  new                    - новое случайное мастер-зерно
  joincode <seed>        - код вступления, который сессия выведет из зерна
  sub <seed> <label>     - производное зерно для подсистемы (turn-3, galaxy...)
  fromstring <text>      - детерминированное зерно из строки`)
}
