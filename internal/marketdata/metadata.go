package marketdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aristath/hedger/internal/domain"
)

// Metadata maps instrument id to its descriptive fields.
type Metadata map[string]domain.InstrumentMetadata

// Missing returns the ids not present in the metadata, in input order.
func (m Metadata) Missing(ids []string) []string {
	var missing []string
	for _, id := range ids {
		if _, ok := m[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// LoadMetadataFile opens path and reads it with ReadMetadata.
func LoadMetadataFile(path string) (Metadata, error) {
	// #nosec G304 -- file path is operator provided via config or CLI flags.
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open metadata file: %w", err)
	}
	defer file.Close()

	md, err := ReadMetadata(file)
	if err != nil {
		return nil, fmt.Errorf("read metadata file %s: %w", path, err)
	}
	return md, nil
}

// ReadMetadata parses a metadata CSV whose first column is the instrument id.
// Remaining columns are kept as strings under their header names.
func ReadMetadata(r io.Reader) (Metadata, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: metadata file is empty", domain.ErrParse)
		}
		return nil, fmt.Errorf("%w: read csv header: %v", domain.ErrParse, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	md := make(Metadata)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read csv record: %v", domain.ErrParse, err)
		}

		id := strings.TrimSpace(record[0])
		if id == "" {
			return nil, fmt.Errorf("%w: line %d has an empty instrument id", domain.ErrParse, line)
		}
		if _, dup := md[id]; dup {
			return nil, fmt.Errorf("%w: line %d repeats instrument %s", domain.ErrParse, line, id)
		}

		fields := make(map[string]string, len(header)-1)
		for i := 1; i < len(record); i++ {
			fields[header[i]] = strings.TrimSpace(record[i])
		}
		md[id] = domain.InstrumentMetadata{ID: id, Fields: fields}
	}

	return md, nil
}
