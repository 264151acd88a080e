package model

import "github.com/rmgdb/kineticdb/internal/canon"

type Author struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

func (a Author) Canonical() canon.Object {
	return canon.Object{
		"firstname": canon.String(a.Firstname),
		"lastname":  canon.String(a.Lastname),
	}
}

// Source is the publication a piece of data was taken from.
type Source struct {
	DOI             string   `json:"doi"`
	PrimeID         string   `json:"prime_id"`
	PublicationYear int      `json:"publication_year"`
	Title           string   `json:"title"`
	JournalName     string   `json:"journal_name"`
	JournalVolume   string   `json:"journal_volume"`
	PageNumbers     string   `json:"page_numbers"`
	Authors         []Author `json:"authors"`
}

func (s Source) Canonical() canon.Object {
	authors := make(canon.Set, len(s.Authors))
	for n, a := range s.Authors {
		authors[n] = a.Canonical()
	}
	return canon.Object{
		"doi":              canon.String(s.DOI),
		"prime_id":         canon.String(s.PrimeID),
		"publication_year": canon.Int(s.PublicationYear),
		"title":            canon.String(s.Title),
		"journal_name":     canon.String(s.JournalName),
		"journal_volume":   canon.String(s.JournalVolume),
		"page_numbers":     canon.String(s.PageNumbers),
		"authors":          authors,
	}
}
