package model

import (
	"fmt"
	"strconv"
	"time"

	dommodel "github.com/kailas-cloud/contentrec/internal/domain/model"
)

// infoToHash converts a catalogue entry to a map for HSET.
func infoToHash(info dommodel.Info) map[string]string {
	return map[string]string{
		"name":       info.Name,
		"language":   info.Language,
		"mode":       info.Mode,
		"run_id":     info.RunID,
		"documents":  strconv.Itoa(info.Documents),
		"entries":    strconv.Itoa(info.Entries),
		"updated_at": strconv.FormatInt(info.UpdatedAt.UnixMilli(), 10),
	}
}

// infoFromHash hydrates a catalogue entry from an HGETALL result map.
func infoFromHash(m map[string]string) (dommodel.Info, error) {
	info := dommodel.Info{
		Name:     m["name"],
		Language: m["language"],
		Mode:     m["mode"],
		RunID:    m["run_id"],
	}

	var err error
	if info.Documents, err = atoiOrZero(m["documents"]); err != nil {
		return dommodel.Info{}, fmt.Errorf("invalid documents: %w", err)
	}
	if info.Entries, err = atoiOrZero(m["entries"]); err != nil {
		return dommodel.Info{}, fmt.Errorf("invalid entries: %w", err)
	}
	if s := m["updated_at"]; s != "" {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return dommodel.Info{}, fmt.Errorf("invalid updated_at: %w", err)
		}
		info.UpdatedAt = time.UnixMilli(ms).UTC()
	}
	return info, nil
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
