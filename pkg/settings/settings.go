package settings

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Settings is one immutable configuration snapshot. A reload produces a new
// value; an existing snapshot is never modified after Load returns.
type Settings struct {
	Options  Options                       `toml:"options" yaml:"options"`
	Identity map[string]IdentityDescriptor `toml:"oauth_servers" yaml:"oauth_servers"`
	Drive    map[string]DriveDescriptor    `toml:"drive_servers" yaml:"drive_servers"`
}

// Options are the network and downstream endpoints of the service.
type Options struct {
	Host    string `toml:"host" yaml:"host" env:"HOST"`
	Port    int    `toml:"port" yaml:"port" env:"PORT"`
	RootDir string `toml:"root_dir" yaml:"root_dir" env:"ROOT_DIR"`

	RedisURL      Secret `toml:"redis_db" yaml:"redis_db" env:"REDIS_DB"`
	RedisPoolSize int    `toml:"redis_pool_size" yaml:"redis_pool_size" env:"REDIS_POOL_SIZE"`

	AuthorizedEndpoint      string `toml:"tnc_authorized_endpoint" yaml:"tnc_authorized_endpoint" env:"TNC_AUTHORIZED_ENDPOINT"`
	AuthorizedDriveEndpoint string `toml:"tnc_authorized_drive_endpoint" yaml:"tnc_authorized_drive_endpoint" env:"TNC_AUTHORIZED_DRIVE_ENDPOINT"`
	RegisterEndpoint        string `toml:"tnc_register_endpoint" yaml:"tnc_register_endpoint" env:"TNC_REGISTER_ENDPOINT"`
	AppEndpoint             string `toml:"tnc_app_endpoint" yaml:"tnc_app_endpoint" env:"TNC_APP_ENDPOINT"`
	DriveTokenEndpoint      string `toml:"tnc_drive_token_endpoint" yaml:"tnc_drive_token_endpoint" env:"TNC_DRIVE_TOKEN_ENDPOINT"`
	FilesystemEndpoint      string `toml:"tnc_filesystem_endpoint" yaml:"tnc_filesystem_endpoint" env:"TNC_FILESYSTEM_ENDPOINT"`

	// AccountSessionCookie names the registrar's account cookie forwarded
	// when a drive token is registered.
	AccountSessionCookie string `toml:"account_session_cookie" yaml:"account_session_cookie" env:"ACCOUNT_SESSION_COOKIE"`
	UserAgent            string `toml:"user_agent" yaml:"user_agent" env:"USER_AGENT"`

	ExchangeTimeout  time.Duration `toml:"exchange_timeout" yaml:"exchange_timeout" env:"EXCHANGE_TIMEOUT"`
	ResourceTimeout  time.Duration `toml:"resource_timeout" yaml:"resource_timeout" env:"RESOURCE_TIMEOUT"`
	RegistrarTimeout time.Duration `toml:"registrar_timeout" yaml:"registrar_timeout" env:"REGISTRAR_TIMEOUT"`
}

// Addr is the listen address built from Host and Port.
func (o Options) Addr() string {
	if o.Port == 0 {
		return ""
	}
	return o.Host + ":" + strconv.Itoa(o.Port)
}

// FilesystemURL is where a completed drive authorization redirects:
// {FilesystemEndpoint}/{projectID}/files.
func (o Options) FilesystemURL(projectID string) (string, error) {
	base, err := url.Parse(strings.TrimRight(o.FilesystemEndpoint, "/"))
	if err != nil {
		return "", err
	}
	return base.JoinPath(projectID, "files").String(), nil
}

// IdentityDescriptor describes one identity provider.
type IdentityDescriptor struct {
	AuthURL        string `toml:"auth_url" yaml:"auth_url"`
	TokenURL       string `toml:"token_url" yaml:"token_url"`
	ClientID       Secret `toml:"client_id" yaml:"client_id" env:"CLIENT_ID"`
	ClientSecret   Secret `toml:"client_secret" yaml:"client_secret" env:"CLIENT_SECRET"`
	IdentityServer string `toml:"identity_server" yaml:"identity_server"`
	RevocationURL  string `toml:"revocation_url" yaml:"revocation_url"`
	Scope          string `toml:"scope" yaml:"scope"`
}

// DriveDescriptor describes one drive provider.
type DriveDescriptor struct {
	AuthURI      string       `toml:"auth_uri" yaml:"auth_uri"`
	TokenURI     string       `toml:"token_uri" yaml:"token_uri"`
	ClientID     Secret       `toml:"client_id" yaml:"client_id" env:"CLIENT_ID"`
	ClientSecret Secret       `toml:"client_secret" yaml:"client_secret" env:"CLIENT_SECRET"`
	ProjectID    string       `toml:"project_id" yaml:"project_id"`
	Scopes       []string     `toml:"scopes" yaml:"scopes"`
	FilesRequest FilesRequest `toml:"files_request" yaml:"files_request"`
}

// FilesRequest describes how to list the root of a drive.
type FilesRequest struct {
	Method      string `toml:"method" yaml:"method"`
	DriveServer string `toml:"drive_server" yaml:"drive_server"`
	Endpoint    string `toml:"endpoint" yaml:"endpoint"`
	QueryLs     string `toml:"query_ls" yaml:"query_ls"`
	QueryRead   string `toml:"query_read" yaml:"query_read"`
	JSONBodyLs  string `toml:"json_body_ls" yaml:"json_body_ls"`
}

// ListURL joins server, endpoint and listing query.
func (f FilesRequest) ListURL() string {
	return f.DriveServer + f.Endpoint + f.QueryLs
}

const (
	DefaultUserAgent            = "Luci Auth Service"
	DefaultAccountSessionCookie = "session"
	DefaultTimeout              = 10 * time.Second
	DefaultFilesMethod          = "post"
)

// applyDefaults fills optional fields left empty by every layer.
func (s *Settings) applyDefaults() {
	o := &s.Options
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.AccountSessionCookie == "" {
		o.AccountSessionCookie = DefaultAccountSessionCookie
	}
	if o.ExchangeTimeout <= 0 {
		o.ExchangeTimeout = DefaultTimeout
	}
	if o.ResourceTimeout <= 0 {
		o.ResourceTimeout = DefaultTimeout
	}
	if o.RegistrarTimeout <= 0 {
		o.RegistrarTimeout = DefaultTimeout
	}
	for k, d := range s.Drive {
		if d.FilesRequest.Method == "" {
			d.FilesRequest.Method = DefaultFilesMethod
		}
		d.FilesRequest.Method = strings.ToLower(d.FilesRequest.Method)
		s.Drive[k] = d
	}
}
