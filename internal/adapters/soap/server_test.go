package soap_test

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/player-soap-service/internal/adapters/auth"
	"github.com/andrescamacho/player-soap-service/internal/adapters/persistence"
	"github.com/andrescamacho/player-soap-service/internal/adapters/soap"
	appAuth "github.com/andrescamacho/player-soap-service/internal/application/auth"
	"github.com/andrescamacho/player-soap-service/internal/application/setup"
	domainAuth "github.com/andrescamacho/player-soap-service/internal/domain/auth"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/config"
	"github.com/andrescamacho/player-soap-service/test/helpers"
)

const soapPath = "/soap/player"

type testPlayer struct {
	ID         int    `xml:"id"`
	Name       string `xml:"name"`
	Club       string `xml:"club"`
	Age        int    `xml:"age"`
	IsActive   bool   `xml:"isActive"`
	Statistics []struct {
		Season string `xml:"season"`
		Goals  int    `xml:"goals"`
	} `xml:"statistics"`
	Awards []struct {
		AwardName string `xml:"awardName"`
	} `xml:"award"`
}

type testEnvelope struct {
	Body struct {
		Response *struct {
			XMLName      xml.Name
			StatusCode   int          `xml:"statusCode"`
			Success      bool         `xml:"success"`
			Message      string       `xml:"message"`
			Token        string       `xml:"token"`
			ExpiresIn    int64        `xml:"expiresIn"`
			DeletedCount int64        `xml:"deletedCount"`
			Players      []testPlayer `xml:"player"`
			List         []testPlayer `xml:"players>player"`
		} `xml:",any"`
		Fault *struct {
			Code   string `xml:"faultcode"`
			String string `xml:"faultstring"`
			Detail struct {
				StatusCode int    `xml:"statusCode"`
				Type       string `xml:"type"`
				Message    string `xml:"message"`
			} `xml:"detail>error"`
		} `xml:"Fault"`
	} `xml:"Body"`
}

type serverFixture struct {
	server *soap.Server
	repo   *helpers.MockPlayerRepository
}

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Address:      ":0",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		BodyLimit:    1 << 20,
		SOAPPath:     soapPath,
		RateLimit:    config.RateLimitConfig{Requests: 1000, Burst: 1000},
	}
}

func newServerFixture(t *testing.T, cfg config.ServerConfig, health soap.HealthCheck) *serverFixture {
	t.Helper()
	db := helpers.NewTestDB(t)
	users := persistence.NewGormUserRepository(db)
	require.NoError(t, auth.EnsureUser(context.Background(), users, "admin", "password123", domainAuth.RoleAdmin))

	store := auth.NewMemoryTokenStore()
	issuer := auth.NewTokenIssuer("test-secret-0123456789", 24*time.Hour, store, nil)
	authenticator := auth.NewAuthenticator(users, issuer, store, nil)

	repo := helpers.NewMockPlayerRepository()
	med, err := setup.NewHandlerRegistry(repo).CreateConfiguredMediator(appAuth.AuditMiddleware())
	require.NoError(t, err)

	return &serverFixture{
		server: soap.NewServer(cfg, med, authenticator, nil, health, nil),
		repo:   repo,
	}
}

func adminBasic() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:password123"))
}

func envelopeOf(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/" xmlns:tns="http://example.com/player-service">
  <soap:Body>` + body + `</soap:Body>
</soap:Envelope>`
}

func (f *serverFixture) post(t *testing.T, authHeader, body string) (int, *testEnvelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, soapPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "text/xml")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := f.server.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")

	var env testEnvelope
	require.NoError(t, xml.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, &env
}

func requireFault(t *testing.T, env *testEnvelope, status int, faultType, message string) {
	t.Helper()
	require.NotNil(t, env.Body.Fault, "expected a SOAP fault")
	assert.Equal(t, "soap:"+faultType, env.Body.Fault.Code)
	assert.Equal(t, message, env.Body.Fault.String)
	assert.Equal(t, status, env.Body.Fault.Detail.StatusCode)
	assert.Equal(t, faultType, env.Body.Fault.Detail.Type)
}

const createMessiBody = `<tns:createPlayerRequest>
  <name>Leo Messi</name><country>Argentina</country><club>Inter Miami</club>
  <position>Forward</position><age>37</age>
  <statistics><season>2024</season><goals>20</goals><matches>19</matches></statistics>
  <awards><awardName>Ballon d'Or</awardName><year>2023</year><category>Individual</category></awards>
</tns:createPlayerRequest>`

func TestServer_CreatePlayer(t *testing.T) {
	// Arrange
	f := newServerFixture(t, testServerConfig(), nil)

	// Act
	status, env := f.post(t, adminBasic(), envelopeOf(createMessiBody))

	// Assert
	require.Equal(t, http.StatusCreated, status)
	require.NotNil(t, env.Body.Response)
	assert.Equal(t, "createPlayerResponse", env.Body.Response.XMLName.Local)
	assert.Equal(t, 201, env.Body.Response.StatusCode)
	assert.True(t, env.Body.Response.Success)
	assert.Equal(t, "Player created successfully", env.Body.Response.Message)
	require.Len(t, env.Body.Response.Players, 1)
	created := env.Body.Response.Players[0]
	assert.NotZero(t, created.ID)
	assert.True(t, created.IsActive)
	require.Len(t, created.Statistics, 1)
	assert.Equal(t, 20, created.Statistics[0].Goals)
	require.Len(t, created.Awards, 1)
	assert.Equal(t, 1, f.repo.Count())
}

func TestServer_CreatePlayerValidationAndConflict(t *testing.T) {
	// Arrange
	f := newServerFixture(t, testServerConfig(), nil)
	invalid := strings.Replace(createMessiBody, "<age>37</age>", "<age>50</age>", 1)

	// Act
	invalidStatus, invalidEnv := f.post(t, adminBasic(), envelopeOf(invalid))
	firstStatus, _ := f.post(t, adminBasic(), envelopeOf(createMessiBody))
	dupStatus, dupEnv := f.post(t, adminBasic(), envelopeOf(createMessiBody))

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, invalidStatus)
	requireFault(t, invalidEnv, 422, "ValidationError", "Invalid age. Must be between 15 and 45")
	assert.Equal(t, http.StatusCreated, firstStatus)
	assert.Equal(t, http.StatusConflict, dupStatus)
	requireFault(t, dupEnv, 409, "ConflictError", "Player Leo Messi already exists in Inter Miami")
	assert.Equal(t, 1, f.repo.Count())
}

func TestServer_GetPlayer(t *testing.T) {
	f := newServerFixture(t, testServerConfig(), nil)
	seeded := f.repo.AddPlayer(helpers.CreateTestPlayer("Pedri", "Barcelona"))

	tests := []struct {
		name    string
		id      string
		status  int
		fault   string
		message string
	}{
		{"existing player", itoa(seeded.ID), http.StatusOK, "", "Player retrieved successfully"},
		{"missing id", "", http.StatusBadRequest, "ValidationError", "Player ID is required"},
		{"non numeric id", "abc", http.StatusBadRequest, "ValidationError", "Player ID is required"},
		{"unknown player", "999", http.StatusNotFound, "NotFoundError", "Player not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := f.post(t, adminBasic(), envelopeOf(`<tns:getPlayerRequest><id>`+tt.id+`</id></tns:getPlayerRequest>`))

			assert.Equal(t, tt.status, status)
			if tt.fault != "" {
				requireFault(t, env, tt.status, tt.fault, tt.message)
				return
			}
			require.NotNil(t, env.Body.Response)
			assert.Equal(t, tt.message, env.Body.Response.Message)
			require.Len(t, env.Body.Response.Players, 1)
			assert.Equal(t, "Pedri", env.Body.Response.Players[0].Name)
		})
	}
}

func TestServer_UpdatePlayerStats(t *testing.T) {
	// Arrange
	f := newServerFixture(t, testServerConfig(), nil)
	seeded := f.repo.AddPlayer(helpers.CreateTestPlayer("Pedri", "Barcelona"))
	body := `<tns:updatePlayerStatsRequest><id>` + itoa(seeded.ID) + `</id>
      <statistics><season>2023</season><goals>4</goals><matches>30</matches></statistics>
      <statistics><season>2024</season><goals>6</goals><matches>28</matches></statistics>
    </tns:updatePlayerStatsRequest>`

	// Act
	status, env := f.post(t, adminBasic(), envelopeOf(body))
	emptyStatus, emptyEnv := f.post(t, adminBasic(), envelopeOf(`<tns:updatePlayerStatsRequest><id>1</id></tns:updatePlayerStatsRequest>`))

	// Assert
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Player statistics updated successfully", env.Body.Response.Message)
	require.Len(t, env.Body.Response.Players, 1)
	assert.Len(t, env.Body.Response.Players[0].Statistics, 2)
	assert.Len(t, env.Body.Response.Players[0].Awards, 1, "awards are untouched")

	assert.Equal(t, http.StatusBadRequest, emptyStatus)
	requireFault(t, emptyEnv, 400, "ValidationError", "At least one statistics entry is required")
}

func TestServer_UpdateAndDeletePlayer(t *testing.T) {
	// Arrange
	f := newServerFixture(t, testServerConfig(), nil)
	seeded := f.repo.AddPlayer(helpers.CreateTestPlayer("Pedri", "Barcelona"))
	id := itoa(seeded.ID)
	update := `<tns:updatePlayerRequest><id>` + id + `</id>
      <name>Pedri</name><country>Spain</country><club>Barcelona</club>
      <position>Midfielder</position><age>22</age><isActive>false</isActive>
    </tns:updatePlayerRequest>`

	// Act
	updateStatus, updateEnv := f.post(t, adminBasic(), envelopeOf(update))
	deleteStatus, deleteEnv := f.post(t, adminBasic(), envelopeOf(`<tns:deletePlayerRequest><id>`+id+`</id></tns:deletePlayerRequest>`))
	againStatus, againEnv := f.post(t, adminBasic(), envelopeOf(`<tns:deletePlayerRequest><id>`+id+`</id></tns:deletePlayerRequest>`))

	// Assert
	require.Equal(t, http.StatusOK, updateStatus)
	assert.Equal(t, "Player updated successfully", updateEnv.Body.Response.Message)
	assert.Equal(t, 22, updateEnv.Body.Response.Players[0].Age)
	assert.False(t, updateEnv.Body.Response.Players[0].IsActive)

	require.Equal(t, http.StatusOK, deleteStatus)
	assert.Equal(t, "Player deleted successfully", deleteEnv.Body.Response.Message)
	assert.Equal(t, 0, f.repo.Count())

	assert.Equal(t, http.StatusNotFound, againStatus)
	requireFault(t, againEnv, 404, "NotFoundError", "Player not found")
}

func TestServer_BulkCreateListAndDeleteAll(t *testing.T) {
	// Arrange
	f := newServerFixture(t, testServerConfig(), nil)
	bulk := `<tns:bulkCreatePlayersRequest>
      <players><name>A</name><country>Spain</country><club>X</club><position>Defender</position><age>20</age></players>
      <players><name>B</name><country>Spain</country><club>X</club><position>Goalkeeper</position><age>21</age></players>
    </tns:bulkCreatePlayersRequest>`

	// Act
	bulkStatus, bulkEnv := f.post(t, adminBasic(), envelopeOf(bulk))
	_, listEnv := f.post(t, adminBasic(), envelopeOf(`<tns:listPlayersRequest/>`))
	wipeStatus, wipeEnv := f.post(t, adminBasic(), envelopeOf(`<tns:deleteAllPlayerStatsRequest/>`))
	_, emptyListEnv := f.post(t, adminBasic(), envelopeOf(`<tns:listPlayersRequest/>`))

	// Assert
	require.Equal(t, http.StatusOK, bulkStatus)
	assert.Equal(t, "Successfully created 2 players", bulkEnv.Body.Response.Message)
	assert.Len(t, bulkEnv.Body.Response.Players, 2)

	assert.Equal(t, "Players retrieved successfully", listEnv.Body.Response.Message)
	require.Len(t, listEnv.Body.Response.List, 2)
	assert.Equal(t, "A", listEnv.Body.Response.List[0].Name)

	require.Equal(t, http.StatusOK, wipeStatus)
	assert.Equal(t, "All data deleted successfully", wipeEnv.Body.Response.Message)
	assert.Equal(t, int64(2), wipeEnv.Body.Response.DeletedCount)
	assert.Empty(t, emptyListEnv.Body.Response.List)
}

func TestServer_BulkCreateIsAllOrNothing(t *testing.T) {
	f := newServerFixture(t, testServerConfig(), nil)
	bulk := `<tns:bulkCreatePlayersRequest>
      <players><name>A</name><country>Spain</country><club>X</club><position>Defender</position><age>20</age></players>
      <players><name>B</name><country>Spain</country><position>Defender</position><age>20</age></players>
    </tns:bulkCreatePlayersRequest>`

	status, env := f.post(t, adminBasic(), envelopeOf(bulk))

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	requireFault(t, env, 422, "ValidationError", "Player 2: Player club is required")
	assert.Equal(t, 0, f.repo.Count())
}

func TestServer_Authentication(t *testing.T) {
	f := newServerFixture(t, testServerConfig(), nil)
	list := envelopeOf(`<tns:listPlayersRequest/>`)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"no header", "", "No authorization header provided"},
		{"wrong password", "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:nope")), "Invalid credentials"},
		{"unknown scheme", "Digest abc", "Invalid authentication method"},
		{"forged bearer", "Bearer pst.e30.c2ln", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := f.post(t, tt.header, list)

			assert.Equal(t, http.StatusUnauthorized, status)
			require.NotNil(t, env.Body.Fault)
			assert.Equal(t, "soap:AuthenticationError", env.Body.Fault.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, env.Body.Fault.String)
			}
		})
	}
}

func TestServer_TokenLifecycle(t *testing.T) {
	// Arrange
	f := newServerFixture(t, testServerConfig(), nil)
	login := envelopeOf(`<tns:generateTokenRequest><username>admin</username><password>password123</password></tns:generateTokenRequest>`)

	// Act
	status, env := f.post(t, "", login)
	require.Equal(t, http.StatusOK, status)
	token := env.Body.Response.Token
	bearer := "Bearer " + token

	listStatus, _ := f.post(t, bearer, envelopeOf(`<tns:listPlayersRequest/>`))
	logoutStatus, _ := f.post(t, bearer, envelopeOf(`<tns:invalidateTokenRequest/>`))
	afterStatus, afterEnv := f.post(t, bearer, envelopeOf(`<tns:listPlayersRequest/>`))

	// Assert
	assert.Equal(t, "Token generated successfully", env.Body.Response.Message)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64(86400), env.Body.Response.ExpiresIn)
	assert.Equal(t, http.StatusOK, listStatus)
	assert.Equal(t, http.StatusOK, logoutStatus)
	assert.Equal(t, http.StatusUnauthorized, afterStatus)
	requireFault(t, afterEnv, 401, "AuthenticationError", "Token not found or has been invalidated")
}

func TestServer_GenerateTokenRejections(t *testing.T) {
	f := newServerFixture(t, testServerConfig(), nil)

	missingStatus, missingEnv := f.post(t, "", envelopeOf(`<tns:generateTokenRequest><username>admin</username></tns:generateTokenRequest>`))
	badStatus, badEnv := f.post(t, "", envelopeOf(`<tns:generateTokenRequest><username>admin</username><password>x</password></tns:generateTokenRequest>`))

	assert.Equal(t, http.StatusBadRequest, missingStatus)
	requireFault(t, missingEnv, 400, "ValidationError", "Username and password are required")
	assert.Equal(t, http.StatusUnauthorized, badStatus)
	requireFault(t, badEnv, 401, "AuthenticationError", "Invalid credentials")
}

func TestServer_MalformedRequests(t *testing.T) {
	f := newServerFixture(t, testServerConfig(), nil)

	tests := []struct {
		name      string
		body      string
		status    int
		faultType string
		message   string
	}{
		{"empty body", "", http.StatusBadRequest, "ValidationError", "No body found in request"},
		{"unknown operation", envelopeOf(`<tns:transferPlayerRequest/>`), http.StatusBadRequest, "InvalidOperation", "Operation not supported"},
		{"not xml", "hello", http.StatusBadRequest, "ValidationError", "Malformed SOAP envelope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := f.post(t, adminBasic(), tt.body)

			assert.Equal(t, tt.status, status)
			requireFault(t, env, tt.status, tt.faultType, tt.message)
		})
	}
}

func TestServer_StoreFailureIsServerError(t *testing.T) {
	f := newServerFixture(t, testServerConfig(), nil)
	f.repo.FailWith = errors.New("disk on fire")

	status, env := f.post(t, adminBasic(), envelopeOf(createMessiBody))

	assert.Equal(t, http.StatusInternalServerError, status)
	requireFault(t, env, 500, "ServerError", "Internal Server Error")
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testServerConfig()
	cfg.RateLimit = config.RateLimitConfig{Requests: 1, Burst: 1}
	f := newServerFixture(t, cfg, nil)
	list := envelopeOf(`<tns:listPlayersRequest/>`)

	firstStatus, _ := f.post(t, adminBasic(), list)
	secondStatus, env := f.post(t, adminBasic(), list)

	assert.Equal(t, http.StatusOK, firstStatus)
	assert.Equal(t, http.StatusTooManyRequests, secondStatus)
	requireFault(t, env, 429, "RateLimitExceeded", "Too many requests")
}

func TestServer_OptionsAndCORS(t *testing.T) {
	f := newServerFixture(t, testServerConfig(), nil)
	req := httptest.NewRequest(http.MethodOptions, soapPath, nil)

	resp, err := f.server.App().Test(req, -1)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(soap.HeaderRequestID))
}

func TestServer_Healthz(t *testing.T) {
	healthy := newServerFixture(t, testServerConfig(), func(context.Context) error { return nil })
	broken := newServerFixture(t, testServerConfig(), func(context.Context) error { return errors.New("db down") })

	okResp, err := healthy.server.App().Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	require.NoError(t, err)
	badResp, err := broken.server.App().Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, okResp.StatusCode)
	assert.Equal(t, http.StatusServiceUnavailable, badResp.StatusCode)
}

func TestServer_RequestIDIsEchoed(t *testing.T) {
	f := newServerFixture(t, testServerConfig(), nil)
	req := httptest.NewRequest(http.MethodPost, soapPath, strings.NewReader(envelopeOf(`<tns:listPlayersRequest/>`)))
	req.Header.Set("Authorization", adminBasic())
	req.Header.Set(soap.HeaderRequestID, "req-42")

	resp, err := f.server.App().Test(req, -1)

	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get(soap.HeaderRequestID))
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
