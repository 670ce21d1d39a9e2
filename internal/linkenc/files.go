package linkenc

import (
	"bufio"
	"fmt"
	"os"

	"lpfcatalog/pkg/models"
	"lpfcatalog/pkg/utils"
)

func LoadRecords(path string) ([]models.OrderedObject, error) {
	var recs []models.OrderedObject
	if err := utils.ReadJSON(path, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func SaveRecords(path string, recs []models.OrderedObject) error {
	if recs == nil {
		recs = []models.OrderedObject{}
	}
	return utils.WriteJSON(path, recs)
}

// ReadLines returns the lines of path without their line endings.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open links: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read links: %w", err)
	}
	return lines, nil
}
