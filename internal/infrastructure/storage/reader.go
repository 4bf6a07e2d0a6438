package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine"
)

// maxPayload - защита от битого заголовка
const maxPayload = 64 << 20

// ImportFile читает снимок, записанный ExportFile
func ImportFile(path string) (engine.BattleSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return engine.BattleSnapshot{}, err
	}
	defer f.Close()

	return readSnapshot(f)
}

func readSnapshot(r io.Reader) (engine.BattleSnapshot, error) {
	var snap engine.BattleSnapshot

	var header SnapshotFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return snap, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return snap, fmt.Errorf("%w: invalid magic", domain.ErrConfigurationMissing)
	}
	if header.Version != Version1 {
		return snap, fmt.Errorf("%w: unsupported version: %d (expected %d)", domain.ErrConfigurationMissing, header.Version, Version1)
	}
	if header.PayloadLen == 0 || header.PayloadLen > maxPayload {
		return snap, fmt.Errorf("%w: bad payload length %d", domain.ErrConfigurationMissing, header.PayloadLen)
	}

	payload := make([]byte, header.PayloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return snap, fmt.Errorf("failed to read payload: %w", err)
	}
	if err := json.Unmarshal(payload, &snap); err != nil {
		return snap, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	// Заголовок дублирует ключевые поля, расхождение - признак порчи
	if snap.Seed != header.Seed || int32(snap.Round) != header.Round || uint8(snap.MissionType) != header.MissionType {
		return snap, fmt.Errorf("%w: header does not match payload", domain.ErrConfigurationMissing)
	}
	return snap, nil
}
