/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package zone holds small helpers used when preparing certificates and zone
// files for a domain: serial numbers, validity dates, PEM-style wrapping and
// zone record de-duplication.
package zone

import (
	"crypto/rand"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Nameserver ports. Test mode binds the unprivileged port.
const (
	PortDNS  = 53
	PortTest = 53530
)

// NameserverPort returns the port the authoritative server listens on.
func NameserverPort(test bool) int {
	if test {
		return PortTest
	}
	return PortDNS
}

// GenerateSerial returns n random bytes as upper-case hex, with a space after
// every second byte except at the end: "0A1B 2C3D 4E".
func GenerateSerial(n int) (string, error) {
	return generateSerial(rand.Reader, n)
}

func generateSerial(r io.Reader, n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	var b strings.Builder
	b.Grow(n*2 + n/2)
	for i, c := range buf {
		fmt.Fprintf(&b, "%02X", c)
		if (i+1)%2 == 0 && i < n-1 {
			b.WriteByte(' ')
		}
	}
	return b.String(), nil
}

// NextYearDate formats the same calendar day one year after now as YYYY/MM/DD.
// Feb 29 rolls over to Mar 1.
func NextYearDate(now time.Time) string {
	return now.AddDate(1, 0, 0).Format("2006/01/02")
}

// FormatToWidth hard-wraps text every width runes. No trailing newline is
// added after a final partial line; a text ending exactly on a boundary keeps
// the trailing newline.
func FormatToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out strings.Builder
	line := 0
	for _, r := range text {
		out.WriteRune(r)
		line++
		if line == width {
			out.WriteByte('\n')
			line = 0
		}
	}
	return out.String()
}

var multiSpace = regexp.MustCompile(`  +`)

// Dedupe renders records one per line, collapsing runs of spaces and keeping
// only the first occurrence of each line. The result ends with one newline.
func Dedupe[T fmt.Stringer](records []T) string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, r.String())
	}
	return DedupeLines(lines)
}

// DedupeLines is Dedupe for already rendered records.
func DedupeLines(lines []string) string {
	seen := make(map[string]struct{}, len(lines))
	first := make([]string, 0, len(lines))
	for _, l := range lines {
		l = multiSpace.ReplaceAllString(l, " ")
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		first = append(first, l)
	}
	return strings.TrimRightFunc(strings.Join(first, "\n"), unicode.IsSpace) + "\n"
}
