// Package sheets reads negative keyword settings from CSV exports of the
// settings spreadsheet. Each file is one sheet:
//
//	row 2:  A campaign name, B min query clicks, C max query conversions,
//	        D date range, E negative match type, F campaign level queries (Yes/No)
//	row 4:  from column B, the minimum keyword matches per ad group column;
//	        the first empty or 0 cell ends the columns
//	row 5:  ad group name
//	row 6+: positive keywords, until the first empty cell
//
// encoding/csv skips lines without any field, so empty rows must be exported
// with their separators (",,,") to keep row numbers intact.
package sheets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrNoCampaign is returned for a sheet without a campaign name in A2.
var ErrNoCampaign = errors.New("sheet has no campaign name")

const (
	settingsRow     = 2
	numMatchesRow   = 4
	adGroupNameRow  = 5
	firstKeywordRow = 6
	firstAdGroupCol = 2

	// AllTime disables the date range condition of the query report.
	AllTime = "ALL_TIME"
)

// Settings are the campaign-wide values of a sheet.
type Settings struct {
	CampaignName string
	// MinQueryClicks and MaxQueryConversions are numeric strings, empty when
	// the filter is not used.
	MinQueryClicks       string
	MaxQueryConversions  string
	DateRange            string
	NegativeMatchType    string
	CampaignLevelQueries bool
}

// Column is one ad group column of a sheet.
type Column struct {
	// Letter is the spreadsheet column name, e.g. "B".
	Letter            string
	MinKeywordMatches int
	AdGroup           string
	Keywords          []string
	// Err is set when the column cannot be processed, e.g. a non-numeric
	// minimum match count.
	Err error
}

// Sheet is one parsed settings file.
type Sheet struct {
	Name     string
	Path     string
	Settings Settings
	Columns  []Column
}

// LoadDir loads every *.csv file in dir, ordered by file name.
func LoadDir(dir string) ([]*Sheet, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	sheets := make([]*Sheet, 0, len(paths))
	for _, p := range paths {
		s, err := Load(p)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	return sheets, nil
}

// Load parses a single sheet file. The sheet name is the file name without
// its extension.
func Load(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, err := Parse(name, f)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// Parse reads a sheet from CSV.
func Parse(name string, r io.Reader) (*Sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	g := grid(records)

	s := &Sheet{
		Name: name,
		Settings: Settings{
			CampaignName:         g.cell(settingsRow, 1),
			MinQueryClicks:       g.cell(settingsRow, 2),
			MaxQueryConversions:  g.cell(settingsRow, 3),
			DateRange:            g.cell(settingsRow, 4),
			NegativeMatchType:    g.cell(settingsRow, 5),
			CampaignLevelQueries: strings.EqualFold(g.cell(settingsRow, 6), "yes"),
		},
	}
	if s.Settings.CampaignName == "" {
		return nil, ErrNoCampaign
	}
	if s.Settings.DateRange == "" {
		s.Settings.DateRange = AllTime
	}
	for _, v := range []struct{ name, value string }{
		{"min query clicks", s.Settings.MinQueryClicks},
		{"max query conversions", s.Settings.MaxQueryConversions},
	} {
		if v.value == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v.value, 64); err != nil {
			return nil, fmt.Errorf("%s %q is not a number", v.name, v.value)
		}
	}

	// Ad group columns run until the first empty or zero match count.
	for col := firstAdGroupCol; !endOfColumns(g.cell(numMatchesRow, col)); col++ {
		c := Column{
			Letter:  columnLetter(col),
			AdGroup: g.cell(adGroupNameRow, col),
		}
		c.MinKeywordMatches, c.Err = parseCount(g.cell(numMatchesRow, col))
		for row := firstKeywordRow; g.cell(row, col) != ""; row++ {
			c.Keywords = append(c.Keywords, g.cell(row, col))
		}
		s.Columns = append(s.Columns, c)
	}

	return s, nil
}

// endOfColumns reports whether a match count cell ends the ad group columns.
func endOfColumns(v string) bool {
	if v == "" {
		return true
	}
	f, err := strconv.ParseFloat(v, 64)
	return err == nil && f == 0
}

type grid [][]string

// cell returns the trimmed value at a 1-based row and column, or "".
func (g grid) cell(row, col int) string {
	if row < 1 || row > len(g) {
		return ""
	}
	r := g[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return strings.TrimSpace(r[col-1])
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, fmt.Errorf("minimum keyword matches %q is not a whole number", s)
		}
		n = int(f)
	}
	if n < 0 {
		return 0, fmt.Errorf("minimum keyword matches %d is negative", n)
	}
	return n, nil
}

// columnLetter converts a 1-based column number to its spreadsheet name.
func columnLetter(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return name
}
