package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"voidreach-server/internal/domain"
)

const (
	MagicHeader string = `VRTJ` // 4 байта
	Version1    uint32 = 1
)

// JournalFileHeader - точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type JournalFileHeader struct {
	Magic     [4]byte // 4 байта
	Version   uint32  // 4 байта
	Seed      int64   // 8 байт
	Timestamp int64   // 8 байт
}

// TurnHeader - заголовок записи одного хода.
type TurnHeader struct {
	Turn         int32  // 4
	CommandCount uint32 // 4
}

// CommandHeader - заголовок каждой записанной команды.
type CommandHeader struct {
	Kind       uint8  // 1
	PlayerLen  uint8  // 1
	Seq        uint16 // 2
	PayloadLen uint32 // 4
}

// JournalService пишет и читает журналы ходов (.vrtj). Журнал вместе с
// зерном сессии полностью определяет партию: повторная прогонка тех же
// пакетов через конвейер дает побайтно то же состояние.
type JournalService struct {
	SaveDir string
}

func NewJournalService(dir string) *JournalService {
	// Создаем папку если нет
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		_ = os.MkdirAll(dir, 0755)
	}
	return &JournalService{SaveDir: dir}
}

// Journal - открытый на дозапись журнал одной сессии.
type Journal struct {
	f *os.File
}

// Open создает журнал сессии и пишет глобальный заголовок.
func (s *JournalService) Open(sessionID domain.SessionID, seed int64) (*Journal, error) {
	filename := fmt.Sprintf("journal_%s.vrtj", sessionID)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	header := JournalFileHeader{
		Version:   Version1,
		Seed:      seed,
		Timestamp: time.Now().Unix(),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(f, binary.LittleEndian, &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return &Journal{f: f}, nil
}

// AppendTurn дописывает пакеты одного хода. Игроки пишутся в лексикографическом
// порядке, чтобы два журнала одной партии совпадали побайтно.
func (j *Journal) AppendTurn(turn int, orders map[domain.PlayerID]*domain.TurnOrders) error {
	ids := make([]domain.PlayerID, 0, len(orders))
	count := 0
	for id, batch := range orders {
		ids = append(ids, id)
		count += len(batch.Commands)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })

	th := TurnHeader{Turn: int32(turn), CommandCount: uint32(count)}
	if err := binary.Write(j.f, binary.LittleEndian, &th); err != nil {
		return err
	}

	for _, id := range ids {
		for _, cmd := range orders[id].Commands {
			if err := writeCommand(j.f, cmd); err != nil {
				return err
			}
		}
	}
	return nil
}

func (j *Journal) Close() error {
	return j.f.Close()
}

func writeCommand(w io.Writer, cmd domain.Command) error {
	playerBytes := []byte(cmd.PlayerID)
	if len(playerBytes) > 255 {
		return fmt.Errorf("player id too long: %d", len(playerBytes))
	}
	if cmd.Seq > 65535 {
		return fmt.Errorf("command seq too large: %d", cmd.Seq)
	}

	ch := CommandHeader{
		Kind:       uint8(cmd.Kind),
		PlayerLen:  uint8(len(playerBytes)),
		Seq:        uint16(cmd.Seq),
		PayloadLen: uint32(len(cmd.Payload)),
	}

	if err := binary.Write(w, binary.LittleEndian, &ch); err != nil {
		return err
	}
	if _, err := w.Write(playerBytes); err != nil {
		return err
	}
	if len(cmd.Payload) > 0 {
		if _, err := w.Write(cmd.Payload); err != nil {
			return err
		}
	}
	return nil
}
