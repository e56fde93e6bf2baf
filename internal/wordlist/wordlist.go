// Package wordlist provides the embedded default wordlists and installs
// them into a working directory.
package wordlist

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Kind names one embedded list.
type Kind string

const (
	Subdomains  Kind = "subdomains"
	Usernames   Kind = "usernames"
	Passwords   Kind = "passwords"
	Directories Kind = "directories"
)

// Kinds lists every embedded wordlist.
var Kinds = []Kind{Subdomains, Usernames, Passwords, Directories}

// DirName is the wordlist directory inside a working directory.
const DirName = "wordlists"

//go:embed subdomains.txt usernames.txt passwords.txt directories.txt
var listsFS embed.FS

func (k Kind) file() string { return string(k) + ".txt" }

// Words returns the embedded list as a string slice.
// Lines are trimmed and empty lines/comments are skipped.
func Words(kind Kind) []string {
	data, err := listsFS.ReadFile(kind.file())
	if err != nil {
		return nil
	}

	var words []string
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words
}

// Path returns where kind lives under workdir.
func Path(workdir string, kind Kind) string {
	return filepath.Join(workdir, DirName, kind.file())
}

// Ensure writes any missing default wordlist under workdir. Existing
// files are left untouched so users can replace them.
func Ensure(workdir string) ([]string, error) {
	if workdir == "" {
		return nil, errors.New("workdir is empty")
	}
	dir := filepath.Join(workdir, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	var written []string
	for _, kind := range Kinds {
		dst := Path(workdir, kind)
		if _, err := os.Stat(dst); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return written, fmt.Errorf("stat %s: %w", dst, err)
		}
		data, err := listsFS.ReadFile(kind.file())
		if err != nil {
			return written, fmt.Errorf("read embedded %s: %w", kind, err)
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", dst, err)
		}
		written = append(written, dst)
	}
	return written, nil
}
