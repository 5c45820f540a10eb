package soap

import (
	"encoding/xml"

	"github.com/andrescamacho/player-soap-service/internal/domain/player"
)

type envelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	SoapNS  string   `xml:"xmlns:soap,attr"`
	TnsNS   string   `xml:"xmlns:tns,attr"`
	Body    envelopeBody
}

type envelopeBody struct {
	XMLName  xml.Name `xml:"soap:Body"`
	Response *operationResponse
	Fault    *fault
}

// operationResponse is the <tns:{operation}Response> element
type operationResponse struct {
	XMLName      xml.Name
	StatusCode   int            `xml:"statusCode"`
	Success      bool           `xml:"success"`
	Message      string         `xml:"message"`
	Token        string         `xml:"token,omitempty"`
	ExpiresIn    int64          `xml:"expiresIn,omitempty"`
	DeletedCount *int64         `xml:"deletedCount,omitempty"`
	ID           int            `xml:"id,omitempty"`
	Player       []playerOut    `xml:"player"`
	PlayerList   *playerListOut `xml:"players"`
}

type playerListOut struct {
	Players []playerOut `xml:"player"`
}

type playerOut struct {
	ID         int            `xml:"id"`
	Name       string         `xml:"name"`
	Country    string         `xml:"country"`
	Club       string         `xml:"club"`
	Position   string         `xml:"position"`
	Age        int            `xml:"age"`
	IsActive   bool           `xml:"isActive"`
	Statistics []statisticOut `xml:"statistics"`
	Awards     []awardOut     `xml:"award"`
}

type statisticOut struct {
	Season        string `xml:"season"`
	Goals         int    `xml:"goals"`
	Assists       int    `xml:"assists"`
	Matches       int    `xml:"matches"`
	YellowCards   int    `xml:"yellowCards"`
	RedCards      int    `xml:"redCards"`
	MinutesPlayed int    `xml:"minutesPlayed"`
}

type awardOut struct {
	AwardName string `xml:"awardName"`
	Year      int    `xml:"year"`
	Category  string `xml:"category"`
}

type fault struct {
	XMLName xml.Name    `xml:"soap:Fault"`
	Code    string      `xml:"faultcode"`
	String  string      `xml:"faultstring"`
	Detail  faultDetail `xml:"detail>error"`
}

type faultDetail struct {
	StatusCode int    `xml:"statusCode"`
	Type       string `xml:"type"`
	Message    string `xml:"message"`
}

func newResponse(operation string, statusCode int, message string) *operationResponse {
	return &operationResponse{
		XMLName:    xml.Name{Local: "tns:" + operation + "Response"},
		StatusCode: statusCode,
		Success:    true,
		Message:    message,
	}
}

func (r *operationResponse) withPlayers(players ...*player.Player) *operationResponse {
	for _, p := range players {
		r.Player = append(r.Player, toPlayerOut(p))
	}
	return r
}

func (r *operationResponse) withPlayerList(players []*player.Player) *operationResponse {
	list := &playerListOut{Players: make([]playerOut, 0, len(players))}
	for _, p := range players {
		list.Players = append(list.Players, toPlayerOut(p))
	}
	r.PlayerList = list
	return r
}

func newFault(statusCode int, faultType, message string) *fault {
	return &fault{
		Code:   "soap:" + faultType,
		String: message,
		Detail: faultDetail{
			StatusCode: statusCode,
			Type:       faultType,
			Message:    message,
		},
	}
}

// marshalEnvelope renders exactly one of response or f inside a soap:Envelope
func marshalEnvelope(response *operationResponse, f *fault) ([]byte, error) {
	env := envelope{
		SoapNS: EnvelopeNamespace,
		TnsNS:  ServiceNamespace,
		Body:   envelopeBody{Response: response, Fault: f},
	}
	out, err := xml.MarshalIndent(env, "", "    ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

func toPlayerOut(p *player.Player) playerOut {
	out := playerOut{
		ID:       p.ID,
		Name:     p.Name,
		Country:  p.Country,
		Club:     p.Club,
		Position: string(p.Position),
		Age:      p.Age,
		IsActive: p.IsActive,
	}
	for _, s := range p.Statistics {
		out.Statistics = append(out.Statistics, statisticOut(s))
	}
	for _, a := range p.Awards {
		out.Awards = append(out.Awards, awardOut(a))
	}
	return out
}
