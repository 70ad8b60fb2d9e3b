package builder

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"phoenix-ical/lib/calendar"
)

// WriteCalendar serializes events and writes them to path atomically:
// the document is encoded in memory, written to a temp file in the
// destination directory and renamed into place, so a crash mid-run
// never leaves a partial calendar behind.
func WriteCalendar(path string, events []calendar.Event) error {
	var buf bytes.Buffer
	err := calendar.Encode(&buf, events)
	if err != nil {
		return fmt.Errorf("builder: encode calendar: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(buf.Bytes())
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	err = os.Chmod(tmp.Name(), 0644)
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
