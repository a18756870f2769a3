package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// LoadTSV reads dictionary tokens from a tab-separated file into dict.
//
// Each line is "key<TAB>value<TAB>cost<TAB>lid<TAB>rid" with an optional
// sixth attribute column ("spelling_correction" or "user_dictionary").
// Blank lines and lines starting with '#' are skipped; malformed lines are
// logged and skipped rather than failing the whole load.
func LoadTSV(dict *TrieDictionary, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open dictionary %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	loaded := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			log.Warnf("Skipping malformed dictionary line %d in %s", lineNo, path)
			continue
		}

		cost, err1 := strconv.Atoi(fields[2])
		lid, err2 := strconv.Atoi(fields[3])
		rid, err3 := strconv.Atoi(fields[4])
		if err1 != nil || err2 != nil || err3 != nil {
			log.Warnf("Skipping dictionary line %d in %s: non-numeric field", lineNo, path)
			continue
		}

		token := Token{
			Key:   fields[0],
			Value: fields[1],
			Cost:  cost,
			Lid:   lid,
			Rid:   rid,
		}
		if len(fields) >= 6 {
			switch fields[5] {
			case "spelling_correction":
				token.Attributes |= TokenSpellingCorrection
			case "user_dictionary":
				token.Attributes |= TokenUserDictionary
			}
		}

		dict.Add(token)
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return loaded, fmt.Errorf("read dictionary %s: %w", path, err)
	}

	log.Debugf("Loaded %d tokens from %s", loaded, path)
	return loaded, nil
}
