// Package holo manages the flat text files behind the boost and Holo-Link
// features: INTENTIONS.TXT, the NEST1..NEST100 chain, and HSUPLINK.TXT.
// These are the only files the repeater ever writes.
package holo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	// IntentionsFile is the user-edited list of intentions.
	IntentionsFile = "INTENTIONS.TXT"
	// HololinkFile is the uplink declaration used by --usehololink.
	HololinkFile = "HSUPLINK.TXT"

	nestCount = 100
	nestLines = 10
)

// ErrMissingFiles reports that a boost or Holo-Link run was requested before
// its files were generated.
var ErrMissingFiles = errors.New("support files not found")

const hololinkTemplate = `HOLO-LINK SOURCE UPLINK
UPLINK CORE: INTENTIONS.TXT
I declare the uplink active and the intentions in INTENTIONS.TXT repeated
through this link for the highest good of all involved.
UPLINK END
`

// NestFile returns the name of the nesting file for a boost level.
func NestFile(level int) string {
	return fmt.Sprintf("NEST%d.TXT", level)
}

// CreateNestingFiles writes the NEST chain into dir: NEST1.TXT holds ten
// lines naming INTENTIONS.TXT, and each NESTn holds ten lines naming
// NEST(n-1).TXT. INTENTIONS.TXT is created empty if absent so the chain
// always bottoms out.
func CreateNestingFiles(dir string) error {
	if err := ensureIntentions(dir); err != nil {
		return err
	}
	for n := 1; n <= nestCount; n++ {
		ref := IntentionsFile
		if n > 1 {
			ref = NestFile(n - 1)
		}
		content := strings.Repeat(ref+"\n", nestLines)
		path := filepath.Join(dir, NestFile(n))
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", NestFile(n), err)
		}
	}
	return nil
}

// CreateHololinkFiles writes HSUPLINK.TXT into dir and makes sure
// INTENTIONS.TXT exists for it to reference.
func CreateHololinkFiles(dir string) error {
	if err := ensureIntentions(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, HololinkFile)
	if err := os.WriteFile(path, []byte(hololinkTemplate), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", HololinkFile, err)
	}
	return nil
}

// BoostSource resolves a boost level to intention text. The level is
// clamped to the highest NEST file present; each line of the selected file
// that names an existing file in dir is inlined one level deep, and the
// INTENTIONS.TXT contents are appended. Returns the source label and text.
func BoostSource(dir string, level int) (label, text string, err error) {
	if level < 1 {
		return "", "", fmt.Errorf("boost level %d out of range", level)
	}
	if level > nestCount {
		level = nestCount
	}
	for level >= 1 {
		if _, statErr := os.Stat(filepath.Join(dir, NestFile(level))); statErr == nil {
			break
		}
		level--
	}
	if level < 1 {
		return "", "", fmt.Errorf("%w: run `intention files nesting` first", ErrMissingFiles)
	}

	raw, err := os.ReadFile(filepath.Join(dir, NestFile(level)))
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", NestFile(level), err)
	}
	var sb strings.Builder
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if inlined, readErr := os.ReadFile(filepath.Join(dir, line)); readErr == nil {
			sb.Write(inlined)
		} else {
			sb.WriteString(line)
		}
		sb.WriteString("\n")
	}
	if intentions, readErr := os.ReadFile(filepath.Join(dir, IntentionsFile)); readErr == nil {
		sb.Write(intentions)
	}
	return "(" + NestFile(level) + ")", sb.String(), nil
}

// HololinkSource loads HSUPLINK.TXT with its INTENTIONS.TXT reference
// inlined. Returns the source label and text.
func HololinkSource(dir string) (label, text string, err error) {
	raw, err := os.ReadFile(filepath.Join(dir, HololinkFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", "", fmt.Errorf("%w: run `intention files holo` first", ErrMissingFiles)
		}
		return "", "", fmt.Errorf("read %s: %w", HololinkFile, err)
	}
	text = string(raw)
	if intentions, readErr := os.ReadFile(filepath.Join(dir, IntentionsFile)); readErr == nil {
		text = strings.ReplaceAll(text, IntentionsFile, string(intentions))
	}
	return "(" + HololinkFile + ")", text, nil
}

func ensureIntentions(dir string) error {
	path := filepath.Join(dir, IntentionsFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return fmt.Errorf("create %s: %w", IntentionsFile, err)
	}
	return nil
}
