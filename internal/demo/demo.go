// Package demo provides the offline dataset substituted for list fetches
// when the backend is unreachable. Records served from here are always
// flagged as demo data by the caller.
package demo

import (
	_ "embed"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/libconsole/internal/records"
)

//go:embed dataset.yml
var builtin []byte

// Dataset is one complete set of sample records.
type Dataset struct {
	Books         []records.Book        `yaml:"books"`
	Genres        []records.Genre       `yaml:"genres"`
	Members       []records.Member      `yaml:"members"`
	Transactions  []records.Transaction `yaml:"transactions"`
	Staff         []records.Staff       `yaml:"staff"`
	Summary       records.Summary       `yaml:"summary"`
	PopularGenres []records.GenreStat   `yaml:"popular_genres"`
}

var (
	defaultOnce sync.Once
	defaultSet  *Dataset
)

// Default returns the built-in dataset. It is parsed once; callers get
// their own copy of every slice.
func Default() *Dataset {
	defaultOnce.Do(func() {
		ds, err := Parse(builtin)
		if err != nil {
			panic(fmt.Sprintf("demo: built-in dataset: %v", err))
		}
		defaultSet = ds
	})
	return defaultSet.clone()
}

// Load reads a dataset file. A missing file yields the built-in dataset.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading demo dataset: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML dataset. Statuses are re-derived on read, so the
// stored status is only a hint.
func Parse(data []byte) (*Dataset, error) {
	ds := &Dataset{}
	if len(data) == 0 {
		return ds, nil
	}
	if err := yaml.Unmarshal(data, ds); err != nil {
		return nil, fmt.Errorf("parsing demo dataset YAML: %w", err)
	}
	return ds, nil
}

// TransactionsAt returns the sample transactions with statuses derived
// against now.
func (d *Dataset) TransactionsAt(now time.Time) []records.Transaction {
	out := make([]records.Transaction, len(d.Transactions))
	for i, t := range d.Transactions {
		t.Status = records.DeriveStatus(t.Status, t.DueDate, t.ReturnDate, now)
		out[i] = t
	}
	return out
}

// OverdueAt derives the overdue report from the sample transactions.
func (d *Dataset) OverdueAt(now time.Time) []records.OverdueItem {
	var out []records.OverdueItem
	for _, t := range d.TransactionsAt(now) {
		if t.Status != records.StatusOverdue {
			continue
		}
		out = append(out, records.OverdueItem{Transaction: t, DaysOverdue: records.DaysOverdue(t.DueDate, now)})
	}
	return out
}

func (d *Dataset) clone() *Dataset {
	c := *d
	c.Books = append([]records.Book(nil), d.Books...)
	c.Genres = append([]records.Genre(nil), d.Genres...)
	c.Members = append([]records.Member(nil), d.Members...)
	c.Transactions = append([]records.Transaction(nil), d.Transactions...)
	c.Staff = append([]records.Staff(nil), d.Staff...)
	c.PopularGenres = append([]records.GenreStat(nil), d.PopularGenres...)
	return &c
}
