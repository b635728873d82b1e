package similarity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/blakearchive/sfmscripts/pkg/models"
)

// Document is a handle on one service document. The (doctype, docid) pair is
// only stable for the service's current load; the desc_id derived from the
// payload is the durable identity used for cross-run correlation.
type Document struct {
	Doctype int
	Docid   int
	Title   string

	client  *Client
	descID  string
	payload json.RawMessage // full document JSON, nil until fetched
}

// Document fetches a single document by its service-assigned identity.
func (c *Client) Document(ctx context.Context, doctype, docid int) (*Document, error) {
	body, err := c.Get(ctx, "document", strconv.Itoa(doctype), strconv.Itoa(docid))
	if err != nil {
		return nil, err
	}
	return c.documentFromJSON(body)
}

// DocumentFromPayload constructs a document from a previously fetched JSON
// payload, skipping the network entirely. The handle exposes the same
// DescID/Matches contract as a fetched document.
func (c *Client) DocumentFromPayload(payload []byte) (*Document, error) {
	return c.documentFromJSON(payload)
}

// DocumentFromFile constructs a document from a JSON payload saved with
// Document.SaveJSON.
func (c *Client) DocumentFromFile(path string) (*Document, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document payload: %w", err)
	}
	return c.documentFromJSON(body)
}

func (c *Client) documentFromJSON(body []byte) (*Document, error) {
	var payload models.DocumentPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode document: %w: %v", ErrUnexpectedResponse, err)
	}
	if payload.Title == "" {
		return nil, fmt.Errorf("document missing title: %w", ErrUnexpectedResponse)
	}
	return &Document{
		Doctype: payload.Doctype,
		Docid:   payload.Docid,
		Title:   payload.Title,
		client:  c,
		descID:  payload.ResolveDescID(),
		payload: json.RawMessage(body),
	}, nil
}

func (c *Client) documentFromRow(row models.DocumentRow) *Document {
	return &Document{
		Doctype: row.Doctype,
		Docid:   row.Docid,
		Title:   row.Title,
		client:  c,
		descID:  models.ParseTitle(row.Title).DescID,
	}
}

// DescID returns the document's durable identifier.
func (d *Document) DescID() string {
	return d.descID
}

// Text returns the document's full text, fetching the payload on first use
// for handles that came from a listing row.
func (d *Document) Text(ctx context.Context) (string, error) {
	payload, err := d.fetchPayload(ctx)
	if err != nil {
		return "", err
	}
	return payload.Text, nil
}

// SaveJSON writes the document's raw payload to a file, fetching it first if
// the handle came from a listing row. The saved file round-trips through
// DocumentFromFile.
func (d *Document) SaveJSON(ctx context.Context, path string) error {
	if _, err := d.fetchPayload(ctx); err != nil {
		return err
	}
	if err := os.WriteFile(path, d.payload, 0o644); err != nil {
		return fmt.Errorf("save document payload: %w", err)
	}
	return nil
}

func (d *Document) fetchPayload(ctx context.Context) (models.DocumentPayload, error) {
	if d.payload == nil {
		body, err := d.client.Get(ctx, "document", strconv.Itoa(d.Doctype), strconv.Itoa(d.Docid))
		if err != nil {
			return models.DocumentPayload{}, err
		}
		d.payload = json.RawMessage(body)
	}
	var payload models.DocumentPayload
	if err := json.Unmarshal(d.payload, &payload); err != nil {
		return models.DocumentPayload{}, fmt.Errorf("decode document: %w: %v", ErrUnexpectedResponse, err)
	}
	return payload, nil
}

// Matches returns a lazy cursor over the document's match listing. Matches
// are fetched on demand and never cached: each call walks the service's
// current results from the first page.
func (d *Document) Matches(ctx context.Context) *Cursor[*Match] {
	matchPath := strings.Join([]string{
		"document", strconv.Itoa(d.Doctype), strconv.Itoa(d.Docid), "matches",
	}, "/")
	return newCursor(func(ctx context.Context, cursor string) ([]*Match, string, error) {
		query := url.Values{}
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		var pg page
		if err := d.client.getJSON(ctx, matchPath, query, &pg); err != nil {
			return nil, "", err
		}

		matches := make([]*Match, 0, len(pg.Rows))
		for _, raw := range pg.Rows {
			var row models.MatchRow
			if err := json.Unmarshal(raw, &row); err != nil {
				return nil, "", fmt.Errorf("decode match row: %w: %v", ErrUnexpectedResponse, err)
			}
			if row.ID == "" || row.Title == "" {
				return nil, "", fmt.Errorf("match row missing id or title: %w", ErrUnexpectedResponse)
			}
			matches = append(matches, &Match{
				ID:            row.ID,
				Doctype:       row.Doctype,
				Docid:         row.Docid,
				Title:         row.Title,
				PrimaryDoc:    d.descID,
				MatchingDoc:   models.ParseTitle(row.Title).DescID,
				FragmentCount: row.FragmentCount,
				client:        d.client,
				primary:       d,
			})
		}
		return matches, pg.Cursors.Next, nil
	})
}

// Match is a service-computed overlap relationship between a primary
// document and a matching document, identified by their desc_ids.
type Match struct {
	ID            string
	Doctype       int // service identity of the matching document
	Docid         int
	Title         string // title of the matching document
	PrimaryDoc    string // desc_id of the document the match was listed under
	MatchingDoc   string // desc_id of the related document
	FragmentCount int

	client  *Client
	primary *Document
}

// fragmentRow validates the fragment wire shape: text is required, the
// positional fields are not.
type fragmentRow struct {
	Text   *string `json:"text"`
	Begin  *int    `json:"begin"`
	Length *int    `json:"length"`
	Hash   *uint64 `json:"hash"`
}

// Fragments fetches the match's overlapping text spans. Every fragment must
// carry a text field; anything else is an unexpected response.
func (m *Match) Fragments(ctx context.Context) ([]models.Fragment, error) {
	var pg page
	err := m.client.GetJSON(ctx, &pg,
		"document", strconv.Itoa(m.primary.Doctype), strconv.Itoa(m.primary.Docid),
		"matches", m.ID, "fragments")
	if err != nil {
		return nil, err
	}

	fragments := make([]models.Fragment, 0, len(pg.Rows))
	for _, raw := range pg.Rows {
		var row fragmentRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("decode fragment: %w: %v", ErrUnexpectedResponse, err)
		}
		if row.Text == nil {
			return nil, fmt.Errorf("fragment missing text: %w", ErrUnexpectedResponse)
		}
		f := models.Fragment{Text: *row.Text}
		if row.Begin != nil {
			f.Begin = *row.Begin
		}
		if row.Length != nil {
			f.Length = *row.Length
		}
		if row.Hash != nil {
			f.Hash = *row.Hash
		}
		fragments = append(fragments, f)
	}
	return fragments, nil
}
