package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/androiddevnotesforks/walleria/internal/domain"
	"github.com/androiddevnotesforks/walleria/internal/format"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func validateOutput(f string) error {
	switch f {
	case outputTable, outputJSON, outputYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", f)
}

// table is a list of records rendered either as aligned columns or, for json and
// yaml, as the records themselves.
type table struct {
	header  []string
	rows    [][]string
	records any
}

func render(w io.Writer, outputFormat string, t table) error {
	switch outputFormat {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t.records)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t.records); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(t.rows) == 0 {
		fmt.Fprintln(w, "No results.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.header, "\t"))
	dashes := make([]string, len(t.header))
	for i, h := range t.header {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))
	for _, r := range t.rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

type photoRecord struct {
	ID          string    `json:"id" yaml:"id"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Author      string    `json:"author" yaml:"author"`
	Width       int       `json:"width" yaml:"width"`
	Height      int       `json:"height" yaml:"height"`
	Likes       int64     `json:"likes" yaml:"likes"`
	Color       string    `json:"color,omitempty" yaml:"color,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	URL         string    `json:"url" yaml:"url"`
}

type collectionRecord struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	TotalPhotos int64  `json:"total_photos" yaml:"total_photos"`
	URL         string `json:"url" yaml:"url"`
}

type userRecord struct {
	Username    string `json:"username" yaml:"username"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
	TotalPhotos int64  `json:"total_photos" yaml:"total_photos"`
	URL         string `json:"url" yaml:"url"`
}

type topicRecord struct {
	Slug        string `json:"slug" yaml:"slug"`
	Title       string `json:"title" yaml:"title"`
	Status      string `json:"status" yaml:"status"`
	Featured    bool   `json:"featured" yaml:"featured"`
	TotalPhotos int64  `json:"total_photos" yaml:"total_photos"`
	URL         string `json:"url" yaml:"url"`
}

func shorten(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func photoTable(photos []domain.Photo) table {
	t := table{header: []string{"ID", "AUTHOR", "SIZE", "LIKES", "DESCRIPTION"}}
	records := make([]photoRecord, len(photos))
	for i, p := range photos {
		records[i] = photoRecord{
			ID:          p.ID,
			Description: p.Description,
			Author:      p.User.Username,
			Width:       p.Width,
			Height:      p.Height,
			Likes:       p.Likes,
			Color:       p.Color,
			CreatedAt:   p.CreatedAt,
			URL:         p.HTMLURL,
		}
		t.rows = append(t.rows, []string{
			p.ID, "@" + p.User.Username, format.Dimensions(p.Width, p.Height),
			format.AbbreviateCount(p.Likes), shorten(p.Description, 50),
		})
	}
	t.records = records
	return t
}

func collectionTable(collections []domain.Collection) table {
	t := table{header: []string{"ID", "TITLE", "PHOTOS", "AUTHOR"}}
	records := make([]collectionRecord, len(collections))
	for i, c := range collections {
		records[i] = collectionRecord{
			ID:          c.ID,
			Title:       c.Title,
			Author:      c.User.Username,
			TotalPhotos: c.TotalPhotos,
			URL:         c.HTMLURL,
		}
		author := ""
		if c.User.Username != "" {
			author = "@" + c.User.Username
		}
		t.rows = append(t.rows, []string{c.ID, shorten(c.Title, 50), format.AbbreviateCount(c.TotalPhotos), author})
	}
	t.records = records
	return t
}

func userTable(users []domain.User) table {
	t := table{header: []string{"USERNAME", "NAME", "PHOTOS", "LOCATION"}}
	records := make([]userRecord, len(users))
	for i, u := range users {
		records[i] = userRecord{
			Username:    u.Username,
			Name:        u.Name,
			Location:    u.Location,
			TotalPhotos: u.TotalPhotos,
			URL:         u.HTMLURL,
		}
		t.rows = append(t.rows, []string{"@" + u.Username, u.Name, format.AbbreviateCount(u.TotalPhotos), u.Location})
	}
	t.records = records
	return t
}

func topicTable(topics []domain.Topic) table {
	t := table{header: []string{"SLUG", "TITLE", "STATUS", "PHOTOS"}}
	records := make([]topicRecord, len(topics))
	for i, tp := range topics {
		records[i] = topicRecord{
			Slug:        tp.Slug,
			Title:       tp.Title,
			Status:      tp.Status,
			Featured:    tp.Featured,
			TotalPhotos: tp.TotalPhotos,
			URL:         tp.HTMLURL,
		}
		title := tp.Title
		if tp.Featured {
			title += " *"
		}
		t.rows = append(t.rows, []string{tp.Slug, title, tp.Status, format.AbbreviateCount(tp.TotalPhotos)})
	}
	t.records = records
	return t
}
