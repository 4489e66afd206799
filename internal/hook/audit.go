package hook

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// AuditRecord is one activation appended to the JSONL audit log.
type AuditRecord struct {
	ID        string    `json:"id"`
	Time      time.Time `json:"time"`
	SessionID string    `json:"sessionId"`
	Event     string    `json:"event"`
	Skill     string    `json:"skill"`
	Source    string    `json:"source,omitempty"`
	Score     float64   `json:"score"`
}

const auditFileName = "activations.jsonl"

// AppendAudit appends one record per activated skill to the audit log in
// baseDir. The log is append-only JSONL; readers tolerate partial lines.
func AppendAudit(baseDir string, records []AuditRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return fmt.Errorf("creating audit directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(baseDir, auditFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.New().String()
		}
		line, err := json.Marshal(records[i])
		if err != nil {
			return fmt.Errorf("marshaling audit record: %w", err)
		}
		if _, err := f.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("writing audit record: %w", err)
		}
	}
	return nil
}

// SkillCount is one row of the activation stats summary.
type SkillCount struct {
	Skill string
	Count int
	Last  time.Time
}

// ReadStats summarizes the audit log: per-skill activation counts sorted
// by count descending, then name. Malformed lines are skipped.
func ReadStats(baseDir string) ([]SkillCount, error) {
	f, err := os.Open(filepath.Join(baseDir, auditFileName))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	counts := make(map[string]*SkillCount)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec AuditRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		if rec.Skill == "" {
			continue
		}
		sc, ok := counts[rec.Skill]
		if !ok {
			sc = &SkillCount{Skill: rec.Skill}
			counts[rec.Skill] = sc
		}
		sc.Count++
		if rec.Time.After(sc.Last) {
			sc.Last = rec.Time
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	out := make([]SkillCount, 0, len(counts))
	for _, sc := range counts {
		out = append(out, *sc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Skill < out[j].Skill
	})
	return out, nil
}
