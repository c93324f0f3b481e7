// Package cues reads timed section markers ("Intro", "Solo", ...) from an
// LRC-style sidecar file stored next to a song.
package cues

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Cue is one marker on the song timeline.
type Cue struct {
	At    time.Duration
	Label string
}

// Sheet is the sorted list of cues for one song.
type Sheet struct {
	Cues   []Cue
	Title  string
	Artist string
}

var (
	// [mm:ss], [mm:ss.xx], [mm:ss.xxx] or [mm:ss:xx]
	stampRe = regexp.MustCompile(`\[(\d+):(\d{1,2})(?:[.:](\d{1,3}))?\]`)
	// [ar:Artist]
	tagRe = regexp.MustCompile(`^\[([a-z]+):(.+)\]$`)
)

// Index returns the index of the cue active at pos, or -1 before the first.
func (s *Sheet) Index(pos time.Duration) int {
	if s == nil {
		return -1
	}
	i, found := slices.BinarySearchFunc(s.Cues, pos, func(c Cue, t time.Duration) int {
		return compareDuration(c.At, t)
	})
	if found {
		// Last of several cues sharing the same stamp.
		for i+1 < len(s.Cues) && s.Cues[i+1].At == pos {
			i++
		}
		return i
	}
	return i - 1
}

// At returns the cue active at pos.
func (s *Sheet) At(pos time.Duration) (Cue, bool) {
	i := s.Index(pos)
	if i < 0 {
		return Cue{}, false
	}
	return s.Cues[i], true
}

// Next returns the first cue strictly after pos.
func (s *Sheet) Next(pos time.Duration) (Cue, bool) {
	i := s.Index(pos) + 1
	if s == nil || i >= len(s.Cues) {
		return Cue{}, false
	}
	return s.Cues[i], true
}

func compareDuration(a, b time.Duration) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Parse reads an LRC-style sheet. Lines without a timestamp and unknown
// tags are ignored; a line may carry several stamps for a repeated label.
func Parse(r io.Reader) (*Sheet, error) {
	sheet := &Sheet{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if tag := tagRe.FindStringSubmatch(line); tag != nil && !stampRe.MatchString(line) {
			switch tag[1] {
			case "ar":
				sheet.Artist = strings.TrimSpace(tag[2])
			case "ti":
				sheet.Title = strings.TrimSpace(tag[2])
			}
			continue
		}

		stamps := stampRe.FindAllStringSubmatchIndex(line, -1)
		if len(stamps) == 0 || stamps[0][0] != 0 {
			continue
		}
		label := strings.TrimSpace(line[stamps[len(stamps)-1][1]:])
		if label == "" {
			continue
		}
		for _, m := range stamps {
			at, ok := parseStamp(line, m)
			if !ok {
				continue
			}
			sheet.Cues = append(sheet.Cues, Cue{At: at, Label: label})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(sheet.Cues, func(a, b Cue) int {
		return compareDuration(a.At, b.At)
	})
	return sheet, nil
}

// parseStamp converts the submatch indexes m of stampRe into a duration.
func parseStamp(line string, m []int) (time.Duration, bool) {
	minutes, err := strconv.Atoi(line[m[2]:m[3]])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.Atoi(line[m[4]:m[5]])
	if err != nil || seconds > 59 {
		return 0, false
	}
	var millis int
	if m[6] >= 0 {
		frac := line[m[6]:m[7]]
		millis, err = strconv.Atoi(frac)
		if err != nil {
			return 0, false
		}
		switch len(frac) {
		case 1:
			millis *= 100
		case 2:
			millis *= 10
		}
	}
	return time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, true
}

// SidecarPath returns the cue file path for a song: same name, .lrc extension.
func SidecarPath(songPath string) string {
	return strings.TrimSuffix(songPath, filepath.Ext(songPath)) + ".lrc"
}

// LoadSidecar reads the cue file next to songPath. A missing file is not an
// error: it returns a nil sheet.
func LoadSidecar(songPath string) (*Sheet, error) {
	f, err := os.Open(SidecarPath(songPath))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
