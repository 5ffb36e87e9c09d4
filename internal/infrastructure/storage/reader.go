package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"voidreach-server/internal/domain"
)

// TurnRecord - один ход из журнала: пакеты, сгруппированные по игрокам.
type TurnRecord struct {
	Turn   int
	Orders map[domain.PlayerID]*domain.TurnOrders
}

// JournalData - разобранный журнал сессии.
type JournalData struct {
	Seed      int64
	Timestamp int64
	Turns     []TurnRecord
}

// Load читает журнал с диска целиком.
func (s *JournalService) Load(path string) (*JournalData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readBinary(f)
}

func readBinary(r io.Reader) (*JournalData, error) {
	// 1. Читаем заголовок целиком
	var header JournalFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}

	data := &JournalData{
		Seed:      header.Seed,
		Timestamp: header.Timestamp,
	}

	// 2. Читаем ходы до конца файла
	for {
		var th TurnHeader
		if err := binary.Read(r, binary.LittleEndian, &th); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		record := TurnRecord{
			Turn:   int(th.Turn),
			Orders: make(map[domain.PlayerID]*domain.TurnOrders),
		}

		for i := 0; i < int(th.CommandCount); i++ {
			cmd, err := readCommand(r)
			if err != nil {
				return nil, err
			}
			batch, ok := record.Orders[cmd.PlayerID]
			if !ok {
				batch = &domain.TurnOrders{PlayerID: cmd.PlayerID}
				record.Orders[cmd.PlayerID] = batch
			}
			batch.Commands = append(batch.Commands, cmd)
		}

		data.Turns = append(data.Turns, record)
	}

	return data, nil
}

func readCommand(r io.Reader) (domain.Command, error) {
	var ch CommandHeader
	if err := binary.Read(r, binary.LittleEndian, &ch); err != nil {
		return domain.Command{}, err
	}

	cmd := domain.Command{
		Kind: domain.CommandKind(ch.Kind),
		Seq:  int(ch.Seq),
	}

	playerBuf := make([]byte, ch.PlayerLen)
	if _, err := io.ReadFull(r, playerBuf); err != nil {
		return domain.Command{}, err
	}
	cmd.PlayerID = domain.PlayerID(playerBuf)

	if ch.PayloadLen > 0 {
		cmd.Payload = make([]byte, ch.PayloadLen)
		if _, err := io.ReadFull(r, cmd.Payload); err != nil {
			return domain.Command{}, err
		}
	} else {
		cmd.Payload = json.RawMessage{}
	}

	return cmd, nil
}
