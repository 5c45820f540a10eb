package soap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/andrescamacho/player-soap-service/internal/domain/player"
)

// Namespaces written on every response envelope
const (
	EnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	ServiceNamespace  = "http://example.com/player-service"
)

var (
	errEmptyBody       = errors.New("no body found in request")
	errNoOperation     = errors.New("no operation element found in SOAP body")
	errMalformedSOAPIn = errors.New("malformed SOAP envelope")
)

// request is the decoded operation element of an incoming envelope.
// One shape serves every operation; each handler reads the fields it needs.
type request struct {
	Operation string `xml:"-"`

	ID       string `xml:"id"`
	Username string `xml:"username"`
	Password string `xml:"password"`

	// Player fields may sit directly under the operation element or inside <player>
	playerElement
	Player *playerElement `xml:"player"`

	Players []bulkEntry `xml:"players"`
}

// playerElement mirrors the <player> wire shape. Numbers stay strings until
// conversion so a non-numeric value can be reported by validation.
type playerElement struct {
	Name       string             `xml:"name"`
	Country    string             `xml:"country"`
	Club       string             `xml:"club"`
	Position   string             `xml:"position"`
	Age        string             `xml:"age"`
	IsActive   string             `xml:"isActive"`
	Statistics []statisticElement `xml:"statistics"`
	Award      []awardElement     `xml:"award"`
	Awards     []awardElement     `xml:"awards"`
}

// bulkEntry is one <players> element. Callers either repeat <players> with the
// player fields inline or send a single <players> wrapping <player> children.
type bulkEntry struct {
	playerElement
	Nested []playerElement `xml:"player"`
}

type statisticElement struct {
	Season        string `xml:"season"`
	Goals         string `xml:"goals"`
	Assists       string `xml:"assists"`
	Matches       string `xml:"matches"`
	YellowCards   string `xml:"yellowCards"`
	RedCards      string `xml:"redCards"`
	MinutesPlayed string `xml:"minutesPlayed"`
}

type awardElement struct {
	AwardName string `xml:"awardName"`
	Year      string `xml:"year"`
	Category  string `xml:"category"`
}

// decodeRequest finds the first element named *Request inside the envelope and
// decodes it. Envelope, Header and Body wrappers are skipped whatever their prefix.
func decodeRequest(body []byte) (*request, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errEmptyBody
	}

	decoder := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil, errNoOperation
		}
		if err != nil {
			return nil, errMalformedSOAPIn
		}

		start, ok := tok.(xml.StartElement)
		if !ok || !strings.HasSuffix(start.Name.Local, "Request") {
			continue
		}

		req := &request{}
		if err := decoder.DecodeElement(req, &start); err != nil {
			return nil, errMalformedSOAPIn
		}
		req.Operation = strings.TrimSuffix(start.Name.Local, "Request")
		return req, nil
	}
}

// PlayerID returns the requested id, or 0 when it is missing or not a positive number
func (r *request) PlayerID() int {
	id, err := strconv.Atoi(strings.TrimSpace(r.ID))
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// Draft returns the single player carried by a create or update request
func (r *request) Draft() player.Draft {
	if r.Player != nil {
		return r.Player.toDraft()
	}
	return r.playerElement.toDraft()
}

// StatisticDrafts returns the statistics listed directly under the operation element
func (r *request) StatisticDrafts() []player.StatisticDraft {
	return statisticDrafts(r.Statistics)
}

// Drafts returns every player carried by a bulk request in document order
func (r *request) Drafts() []player.Draft {
	var drafts []player.Draft
	for _, entry := range r.Players {
		if len(entry.Nested) > 0 {
			for _, p := range entry.Nested {
				drafts = append(drafts, p.toDraft())
			}
			continue
		}
		if !entry.playerElement.empty() {
			drafts = append(drafts, entry.playerElement.toDraft())
		}
	}
	return drafts
}

func (p playerElement) empty() bool {
	return p.Name == "" && p.Country == "" && p.Club == "" && p.Position == "" &&
		p.Age == "" && len(p.Statistics) == 0 && len(p.Award) == 0 && len(p.Awards) == 0
}

func (p playerElement) toDraft() player.Draft {
	draft := player.Draft{
		Name:       strings.TrimSpace(p.Name),
		Country:    strings.TrimSpace(p.Country),
		Club:       strings.TrimSpace(p.Club),
		Position:   player.Position(strings.TrimSpace(p.Position)),
		Age:        valueOrZero(parseInt(p.Age)),
		IsActive:   parseBool(p.IsActive),
		Statistics: statisticDrafts(p.Statistics),
	}

	if awards := append(append([]awardElement(nil), p.Award...), p.Awards...); len(awards) > 0 {
		draft.Awards = make([]player.AwardDraft, 0, len(awards))
		for _, a := range awards {
			draft.Awards = append(draft.Awards, player.AwardDraft{
				AwardName: strings.TrimSpace(a.AwardName),
				Year:      parseInt(a.Year),
				Category:  strings.TrimSpace(a.Category),
			})
		}
	}
	return draft
}

// statisticDrafts keeps nil for "none supplied" so update leaves stored rows alone
func statisticDrafts(elements []statisticElement) []player.StatisticDraft {
	if len(elements) == 0 {
		return nil
	}
	drafts := make([]player.StatisticDraft, 0, len(elements))
	for _, s := range elements {
		drafts = append(drafts, player.StatisticDraft{
			Season:        strings.TrimSpace(s.Season),
			Goals:         parseInt(s.Goals),
			Assists:       parseInt(s.Assists),
			Matches:       parseInt(s.Matches),
			YellowCards:   parseInt(s.YellowCards),
			RedCards:      parseInt(s.RedCards),
			MinutesPlayed: parseInt(s.MinutesPlayed),
		})
	}
	return drafts
}

// parseInt returns nil for an absent or non-numeric value
func parseInt(raw string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &v
}

func parseBool(raw string) *bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &v
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
