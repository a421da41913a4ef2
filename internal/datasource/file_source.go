package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/yourusername/race-advisor/internal/models"
)

// FileSourceName identifies the manual upload source
const FileSourceName = "file"

// FileSource implements DataSource over a manually uploaded JSON corpus
type FileSource struct {
	path    string
	enabled bool
}

// NewFileSource creates a new file-backed data source
func NewFileSource(path string, enabled bool) *FileSource {
	return &FileSource{path: path, enabled: enabled}
}

// FetchRaces reads the corpus and returns races dated within the range.
// Undated races are always included, as is everything when both bounds are zero.
func (s *FileSource) FetchRaces(ctx context.Context, startDate, endDate time.Time) ([]models.RaceRecord, error) {
	if !s.enabled {
		return nil, NewDataSourceError(FileSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	races, err := ReadRaces(s.path)
	if err != nil {
		return nil, err
	}

	if startDate.IsZero() && endDate.IsZero() {
		return races, nil
	}

	filtered := make([]models.RaceRecord, 0, len(races))
	for _, race := range races {
		if inRange(race.Date, startDate, endDate) {
			filtered = append(filtered, race)
		}
	}
	return filtered, nil
}

// Name returns the data source name
func (s *FileSource) Name() string {
	return FileSourceName
}

// IsEnabled returns whether this data source is enabled
func (s *FileSource) IsEnabled() bool {
	return s.enabled
}

// ReadRaces loads a race corpus from a JSON file
func ReadRaces(path string) ([]models.RaceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewDataSourceError(FileSourceName, ErrCodeNotFound, fmt.Sprintf("corpus file not found at %s", path), ErrNotFound)
		}
		return nil, NewDataSourceError(FileSourceName, ErrCodeUnknown, "failed to open corpus file", err)
	}
	defer f.Close()

	return DecodeRaces(f)
}

// DecodeRaces decodes either a JSON array of races or an object with a
// "races" array
func DecodeRaces(r io.Reader) ([]models.RaceRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, NewDataSourceError(FileSourceName, ErrCodeUnknown, "failed to read corpus", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []models.RaceRecord{}, nil
	}

	if trimmed[0] == '[' {
		var races []models.RaceRecord
		if err := json.Unmarshal(trimmed, &races); err != nil {
			return nil, NewDataSourceError(FileSourceName, ErrCodeInvalidData, "failed to parse corpus", err)
		}
		return races, nil
	}

	var wrapped struct {
		Races []models.RaceRecord `json:"races"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, NewDataSourceError(FileSourceName, ErrCodeInvalidData, "failed to parse corpus", err)
	}
	if wrapped.Races == nil {
		wrapped.Races = []models.RaceRecord{}
	}
	return wrapped.Races, nil
}

func inRange(date *time.Time, start, end time.Time) bool {
	if date == nil {
		return true
	}
	if !start.IsZero() && date.Before(start) {
		return false
	}
	if !end.IsZero() && date.After(end) {
		return false
	}
	return true
}
