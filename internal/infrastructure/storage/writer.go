package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BastardoSenpai/BootlegXCom/internal/engine"
)

const (
	MagicHeader string = `BXSN` // 4 байта
	Version1    uint32 = 1
)

// SnapshotFileHeader - заголовок файла экспорта.
// binary.Write пишет его целиком: только массивы и числа.
type SnapshotFileHeader struct {
	Magic       [4]byte // 4 байта
	Version     uint32  // 4 байта
	Seed        int64   // 8 байт
	Round       int32   // 4 байта
	MissionType uint8   // 1 байт
	_           [3]byte // выравнивание
	PayloadLen  uint32  // 4 байта
}

// ExportFile сохраняет снимок в файл (.bxsn). Каталог создается при необходимости.
func ExportFile(path string, snap engine.BattleSnapshot) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return writeSnapshot(f, snap)
}

func writeSnapshot(w io.Writer, snap engine.BattleSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	header := SnapshotFileHeader{
		Version:     Version1,
		Seed:        snap.Seed,
		Round:       int32(snap.Round),
		MissionType: uint8(snap.MissionType),
		PayloadLen:  uint32(len(payload)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}
