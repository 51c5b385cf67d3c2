package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	gt "github.com/gamelib-io/web-ui/services/gametitle"
)

const (
	clientIDFlag     = "igdb-client-id"
	clientSecretFlag = "igdb-client-secret"
	apiURLFlag       = "igdb-api-url"
	tokenURLFlag     = "igdb-token-url"
	timeoutFlag      = "igdb-timeout"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   clientIDFlag,
			Usage:  "igdb (twitch) client id",
			Value:  "",
			EnvVar: "IGDB_CLIENT_ID",
		},
		cli.StringFlag{
			Name:   clientSecretFlag,
			Usage:  "igdb (twitch) client secret",
			Value:  "",
			EnvVar: "IGDB_CLIENT_SECRET",
		},
		cli.StringFlag{
			Name:   apiURLFlag,
			Usage:  "igdb api base url",
			Value:  "https://api.igdb.com/v4",
			EnvVar: "IGDB_API_URL",
		},
		cli.StringFlag{
			Name:   tokenURLFlag,
			Usage:  "twitch oauth token url",
			Value:  "https://id.twitch.tv/oauth2/token",
			EnvVar: "IGDB_TOKEN_URL",
		},
		cli.DurationFlag{
			Name:   timeoutFlag,
			Usage:  "igdb request timeout",
			Value:  10 * time.Second,
			EnvVar: "IGDB_TIMEOUT",
		},
	)
}

// recordFields is the Apicalypse field selection shared by search and lookup.
const recordFields = "fields name,summary,platforms.name,platforms.abbreviation," +
	"cover.image_id,artworks.image_id,screenshots.image_id,videos.video_id," +
	"genres.name;"

type Image struct {
	ImageID string `json:"image_id"`
}

type Platform struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type Video struct {
	VideoID string `json:"video_id"`
}

type Genre struct {
	Name string `json:"name"`
}

// Record is one raw result from the IGDB games endpoint.
type Record struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Summary     string     `json:"summary"`
	Platforms   []Platform `json:"platforms"`
	Cover       *Image     `json:"cover"`
	Artworks    []Image    `json:"artworks"`
	Screenshots []Image    `json:"screenshots"`
	Videos      []Video    `json:"videos"`
	Genres      []Genre    `json:"genres"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Api talks to the IGDB catalog. The bearer token is acquired lazily via the
// Twitch client-credentials exchange and shared between callers; a redundant
// refresh under concurrency is harmless.
type Api struct {
	clientID     string
	clientSecret string
	apiURL       string
	tokenURL     string
	timeout      time.Duration
	cl           *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// New returns nil when client id or secret is not configured.
func New(c *cli.Context, cl *http.Client) *Api {
	clientID := c.String(clientIDFlag)
	clientSecret := c.String(clientSecretFlag)
	if clientID == "" || clientSecret == "" {
		return nil
	}
	log.Infof("igdb api endpoint %v", c.String(apiURLFlag))
	return &Api{
		clientID:     clientID,
		clientSecret: clientSecret,
		apiURL:       strings.TrimSuffix(c.String(apiURLFlag), "/"),
		tokenURL:     c.String(tokenURLFlag),
		timeout:      c.Duration(timeoutFlag),
		cl:           cl,
	}
}

func (api *Api) refreshToken(ctx context.Context) error {
	u, err := url.Parse(api.tokenURL)
	if err != nil {
		return errors.Wrap(err, "parse token url")
	}
	q := u.Query()
	q.Set("client_id", api.clientID)
	q.Set("client_secret", api.clientSecret)
	q.Set("grant_type", "client_credentials")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "POST", u.String(), nil)
	if err != nil {
		return errors.Wrap(err, "create token request")
	}
	resp, err := api.cl.Do(req)
	if err != nil {
		return errors.Wrap(err, "token request failed")
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("token exchange returned status %d", resp.StatusCode)
	}
	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return errors.Wrap(err, "decode token response")
	}
	if tr.ExpiresIn == 0 {
		tr.ExpiresIn = 3600
	}
	api.token = tr.AccessToken
	// Refresh a minute before the declared expiry.
	api.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - 60*time.Second)
	return nil
}

func (api *Api) bearerToken(ctx context.Context) (string, error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.token == "" || !time.Now().Before(api.tokenExpiry) {
		if err := api.refreshToken(ctx); err != nil {
			return "", err
		}
	}
	return api.token, nil
}

func (api *Api) queryGames(ctx context.Context, query string) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, api.timeout)
	defer cancel()

	token, err := api.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", api.apiURL+"/games", strings.NewReader(query))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Client-ID", api.clientID)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := api.cl.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("igdb returned status %d", resp.StatusCode)
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return records, nil
}

// SearchGames returns up to limit candidates for a title in service ranking
// order. With stripInput set, marketing keywords are removed from the query
// to widen recall.
func (api *Api) SearchGames(ctx context.Context, title string, limit int, stripInput bool) ([]Record, error) {
	queryValue := title
	if stripInput {
		queryValue = gt.StripKeywords(title)
	}
	queryTitle := strings.ReplaceAll(queryValue, `"`, " ")
	query := fmt.Sprintf(`search "%s"; %s limit %d;`, queryTitle, recordFields, limit)

	records, err := api.queryGames(ctx, query)
	if err != nil {
		return nil, err
	}
	log.Debugf("igdb search for %q returned %d results", title, len(records))
	return records, nil
}

// GetGameByID looks up a single record by catalog identifier. A missing id
// yields (nil, nil).
func (api *Api) GetGameByID(ctx context.Context, recordID int64) (*Record, error) {
	query := fmt.Sprintf("where id = %d; %s", recordID, recordFields)
	records, err := api.queryGames(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}
