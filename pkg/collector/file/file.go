// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package file

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Options for configuring the Parser.
type Option func(*Parser)

// Parser parses line-oriented key/value text with customizable settings.
type Parser struct {
	delimiter       string
	maxSize         int
	skipComments    bool
	kvDelimiter     string
	vDefault        string
	vTrimChars      string
	skipEmptyValues bool
}

// WithDelimiter sets the delimiter used to split entries.
// Default is newline ("\n").
func WithDelimiter(delim string) Option {
	return func(p *Parser) {
		p.delimiter = delim
	}
}

// WithMaxSize sets the maximum size (in bytes) of the content to be parsed.
// Default is 1MB.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments sets whether to skip lines starting with '#'.
// Default is true.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// WithKVDelimiter sets the key-value delimiter used in map parsing.
// Default is "=".
func WithKVDelimiter(kvDelim string) Option {
	return func(p *Parser) {
		p.kvDelimiter = kvDelim
	}
}

// WithVDefault sets the value used when a line has no delimiter.
// Default is an empty string.
func WithVDefault(vDefault string) Option {
	return func(p *Parser) {
		p.vDefault = vDefault
	}
}

// WithVTrimChars sets characters to trim from values.
// Default is no trimming.
func WithVTrimChars(trimChars string) Option {
	return func(p *Parser) {
		p.vTrimChars = trimChars
	}
}

// WithSkipEmptyValues sets whether to skip entries with empty values.
// Default is false.
func WithSkipEmptyValues(skip bool) Option {
	return func(p *Parser) {
		p.skipEmptyValues = skip
	}
}

// NewParser creates a new parser with the provided options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		delimiter:    "\n",
		maxSize:      1 << 20, // 1MB default
		skipComments: true,
		kvDelimiter:  "=",
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetMap reads the file at path and parses it with ParseMap.
func (p *Parser) GetMap(path string) (map[string]string, error) {
	content, err := p.read(path)
	if err != nil {
		return nil, err
	}
	return p.ParseMap(content), nil
}

// GetLines reads the file at path and parses it with ParseLines.
func (p *Parser) GetLines(path string) ([]string, error) {
	content, err := p.read(path)
	if err != nil {
		return nil, err
	}
	return p.ParseLines(content), nil
}

// ParseMap splits content into key/value pairs on the first kv delimiter of
// each line. Keys and values are trimmed; a line without the delimiter maps
// its key to the default value. Later duplicates win.
func (p *Parser) ParseMap(content string) map[string]string {
	result := make(map[string]string)
	for _, part := range p.ParseLines(content) {
		kv := strings.SplitN(part, p.kvDelimiter, 2)

		if len(kv) != 2 {
			key := strings.TrimSpace(kv[0])
			if p.skipEmptyValues && p.vDefault == "" {
				continue
			}
			slog.Debug("line without value, using default",
				"key", key,
				"delimiter", p.kvDelimiter,
			)
			result[key] = p.vDefault
			continue
		}

		key := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])

		if p.vTrimChars != "" {
			value = strings.Trim(value, p.vTrimChars)
		}

		if p.skipEmptyValues && value == "" {
			continue
		}

		result[key] = value
	}
	return result
}

// ParseLines splits content on the delimiter and returns the trimmed,
// non-empty entries, dropping comments when configured.
func (p *Parser) ParseLines(content string) []string {
	parts := strings.Split(content, p.delimiter)

	result := make([]string, 0, len(parts))
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		if p.skipComments && strings.HasPrefix(clean, "#") {
			continue
		}
		result = append(result, clean)
	}
	return result
}

func (p *Parser) read(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %q: %w", path, err)
	}

	if len(b) > p.maxSize {
		return "", fmt.Errorf("file %q exceeds maximum size of %d bytes", path, p.maxSize)
	}

	if !utf8.Valid(b) {
		return "", fmt.Errorf("content of file %q is not valid UTF-8", path)
	}

	return string(b), nil
}

// ReadString reads a single-value attribute file and returns it trimmed.
func ReadString(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %q: %w", path, err)
	}
	return strings.TrimSpace(string(b)), nil
}

// ReadInt reads a single-value attribute file holding a base-10 integer.
func ReadInt(path string) (int64, error) {
	s, err := ReadString(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %q from %q: %w", s, path, err)
	}
	return v, nil
}
