package steps

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/player-soap-service/internal/adapters/auth"
	"github.com/andrescamacho/player-soap-service/internal/adapters/persistence"
	"github.com/andrescamacho/player-soap-service/internal/adapters/soap"
	appAuth "github.com/andrescamacho/player-soap-service/internal/application/auth"
	"github.com/andrescamacho/player-soap-service/internal/application/setup"
	domainAuth "github.com/andrescamacho/player-soap-service/internal/domain/auth"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/config"
	"github.com/andrescamacho/player-soap-service/test/helpers"
)

const bddSOAPPath = "/soap/player"

// soapReply is the subset of a response envelope the scenarios inspect
type soapReply struct {
	Body struct {
		Response *struct {
			Message string `xml:"message"`
			Token   string `xml:"token"`
			Players []struct {
				ID   int    `xml:"id"`
				Name string `xml:"name"`
			} `xml:"player"`
			List []struct {
				Name string `xml:"name"`
			} `xml:"players>player"`
		} `xml:",any"`
		Fault *struct {
			Detail struct {
				Type    string `xml:"type"`
				Message string `xml:"message"`
			} `xml:"detail>error"`
		} `xml:"Fault"`
	} `xml:"Body"`
}

// soapServiceContext holds state for SOAP endpoint scenarios
type soapServiceContext struct {
	server     *soap.Server
	authHeader string
	token      string
	lastID     int

	status int
	raw    string
	reply  soapReply
}

func (sc *soapServiceContext) reset() {
	sc.server = nil
	sc.authHeader = ""
	sc.token = ""
	sc.lastID = 0
	sc.status = 0
	sc.raw = ""
	sc.reply = soapReply{}
}

func (sc *soapServiceContext) theSOAPServiceIsRunning() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}

	db := helpers.SharedTestDB
	users := persistence.NewGormUserRepository(db)
	if err := auth.EnsureUser(context.Background(), users, "admin", "password123", domainAuth.RoleAdmin); err != nil {
		return err
	}

	store := auth.NewMemoryTokenStore()
	issuer := auth.NewTokenIssuer("bdd-secret-0123456789", time.Hour, store, nil)
	authenticator := auth.NewAuthenticator(users, issuer, store, nil)

	med, err := setup.NewHandlerRegistry(persistence.NewGormPlayerRepository(db)).
		CreateConfiguredMediator(appAuth.AuditMiddleware())
	if err != nil {
		return err
	}

	cfg := config.ServerConfig{
		Address:      ":0",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		BodyLimit:    1 << 20,
		SOAPPath:     bddSOAPPath,
		RateLimit:    config.RateLimitConfig{Requests: 1000, Burst: 1000},
	}
	sc.server = soap.NewServer(cfg, med, authenticator, nil, nil, nil)
	return nil
}

func (sc *soapServiceContext) iAuthenticateAs(username, password string) error {
	sc.authHeader = "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
	return nil
}

func (sc *soapServiceContext) iSendNoCredentials() error {
	sc.authHeader = ""
	return nil
}

func (sc *soapServiceContext) iRequestATokenAs(username, password string) error {
	body := fmt.Sprintf(`<tns:generateTokenRequest><username>%s</username><password>%s</password></tns:generateTokenRequest>`,
		username, password)
	if err := sc.post(body); err != nil {
		return err
	}
	if sc.reply.Body.Response == nil || sc.reply.Body.Response.Token == "" {
		return fmt.Errorf("no token issued: %s", sc.raw)
	}
	sc.token = sc.reply.Body.Response.Token
	return nil
}

func (sc *soapServiceContext) iUseTheIssuedToken() error {
	sc.authHeader = "Bearer " + sc.token
	return nil
}

func (sc *soapServiceContext) iSendTheRequest(doc *godog.DocString) error {
	body := strings.ReplaceAll(doc.Content, "{id}", strconv.Itoa(sc.lastID))
	if err := sc.post(body); err != nil {
		return err
	}
	if sc.reply.Body.Response != nil && len(sc.reply.Body.Response.Players) > 0 {
		sc.lastID = sc.reply.Body.Response.Players[0].ID
	}
	return nil
}

func (sc *soapServiceContext) post(body string) error {
	envelope := `<?xml version="1.0" encoding="UTF-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/" xmlns:tns="http://example.com/player-service">
  <soap:Body>` + body + `</soap:Body>
</soap:Envelope>`

	req := httptest.NewRequest(http.MethodPost, bddSOAPPath, strings.NewReader(envelope))
	req.Header.Set("Content-Type", "text/xml")
	if sc.authHeader != "" {
		req.Header.Set("Authorization", sc.authHeader)
	}

	resp, err := sc.server.App().Test(req, -1)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	sc.status = resp.StatusCode
	sc.raw = string(raw)
	sc.reply = soapReply{}
	if err := xml.Unmarshal(raw, &sc.reply); err != nil {
		return fmt.Errorf("response is not a SOAP envelope: %w\n%s", err, sc.raw)
	}
	return nil
}

func (sc *soapServiceContext) theResponseStatusShouldBe(expected int) error {
	if sc.status != expected {
		return fmt.Errorf("expected HTTP %d, got %d:\n%s", expected, sc.status, sc.raw)
	}
	return nil
}

func (sc *soapServiceContext) theResponseMessageShouldBe(expected string) error {
	var got string
	switch {
	case sc.reply.Body.Response != nil:
		got = sc.reply.Body.Response.Message
	case sc.reply.Body.Fault != nil:
		got = sc.reply.Body.Fault.Detail.Message
	}
	if got != expected {
		return fmt.Errorf("expected message %q, got %q", expected, got)
	}
	return nil
}

func (sc *soapServiceContext) theFaultTypeShouldBe(expected string) error {
	if sc.reply.Body.Fault == nil {
		return fmt.Errorf("expected a fault, got:\n%s", sc.raw)
	}
	if sc.reply.Body.Fault.Detail.Type != expected {
		return fmt.Errorf("expected fault type %s, got %s", expected, sc.reply.Body.Fault.Detail.Type)
	}
	return nil
}

func (sc *soapServiceContext) theResponseShouldCarryPlayer(name string) error {
	if sc.reply.Body.Response == nil || len(sc.reply.Body.Response.Players) == 0 {
		return fmt.Errorf("expected a player in the response:\n%s", sc.raw)
	}
	if got := sc.reply.Body.Response.Players[0].Name; got != name {
		return fmt.Errorf("expected player %s, got %s", name, got)
	}
	return nil
}

func (sc *soapServiceContext) theResponseShouldListPlayers(count int) error {
	if sc.reply.Body.Response == nil {
		return fmt.Errorf("expected a response:\n%s", sc.raw)
	}
	if got := len(sc.reply.Body.Response.List); got != count {
		return fmt.Errorf("expected %d listed players, got %d", count, got)
	}
	return nil
}

// InitializeSOAPServiceScenario registers SOAP endpoint step definitions
func InitializeSOAPServiceScenario(ctx *godog.ScenarioContext) {
	sc := &soapServiceContext{}

	ctx.Before(func(c context.Context, s *godog.Scenario) (context.Context, error) {
		sc.reset()
		return c, nil
	})

	ctx.Step(`^the SOAP service is running$`, sc.theSOAPServiceIsRunning)
	ctx.Step(`^I authenticate as "([^"]*)" with password "([^"]*)"$`, sc.iAuthenticateAs)
	ctx.Step(`^I send no credentials$`, sc.iSendNoCredentials)
	ctx.Step(`^I request a token as "([^"]*)" with password "([^"]*)"$`, sc.iRequestATokenAs)
	ctx.Step(`^I use the issued token$`, sc.iUseTheIssuedToken)
	ctx.Step(`^I send the SOAP request:$`, sc.iSendTheRequest)

	ctx.Step(`^the response status should be (\d+)$`, sc.theResponseStatusShouldBe)
	ctx.Step(`^the response message should be "([^"]*)"$`, sc.theResponseMessageShouldBe)
	ctx.Step(`^the fault type should be "([^"]*)"$`, sc.theFaultTypeShouldBe)
	ctx.Step(`^the response should carry player "([^"]*)"$`, sc.theResponseShouldCarryPlayer)
	ctx.Step(`^the response should list (\d+) players?$`, sc.theResponseShouldListPlayers)
}
