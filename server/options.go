package server

import (
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Options configures the acceptor. The struct tags feed the config
// file and CLI flag layers.
type Options struct {
	Address              string `hcl:"address" flagName:"address" flagSName:"a" flagDescribe:"IP address to listen" default:"0.0.0.0"`
	Port                 string `hcl:"port" flagName:"port" flagSName:"p" flagDescribe:"Port number to listen" default:"7681"`
	PermitWrite          bool   `hcl:"permit_write" flagName:"permit-write" flagSName:"W" flagDescribe:"Permit clients to write to the TTY" default:"false"`
	Credential           string `hcl:"credential" flagName:"credential" flagSName:"c" flagDescribe:"Shared secret clients must present in their init message" default:""`
	EnableBasicAuth      bool   `hcl:"enable_basic_auth" flagName:"enable-basic-auth" flagDescribe:"Additionally require HTTP basic authentication with the credential" default:"false"`
	EnableMouseReporting bool   `hcl:"enable_mouse" flagName:"enable-mouse" flagDescribe:"Enable the mouse reporting protocol extension" default:"false"`
	Once                 bool   `hcl:"once" flagName:"once" flagDescribe:"Accept a single session and exit" default:"false"`
	MaxConnection        int    `hcl:"max_connection" flagName:"max-connection" flagDescribe:"Maximum concurrent sessions (0 for no limit)" default:"0"`
	CheckOrigin          bool   `hcl:"check_origin" flagName:"check-origin" flagSName:"O" flagDescribe:"Reject websocket upgrades whose Origin header does not match the host" default:"false"`
	TitleFormat          string `hcl:"title_format" flagName:"title-format" flagDescribe:"Window title sent to clients; {command} and {hostname} are substituted" default:"{command} ({hostname})"`
	Preferences          string `hcl:"preferences" flagName:"preferences" flagDescribe:"JSON preferences string sent to clients" default:"{}"`
}

func (options *Options) Validate() error {
	var result error

	if options.EnableBasicAuth && options.Credential == "" {
		result = multierror.Append(result, errors.New("credential is required when basic auth is enabled"))
	}
	if port, err := strconv.Atoi(options.Port); err != nil || port < 1 || port > 65535 {
		result = multierror.Append(result, errors.Errorf("invalid port: %q", options.Port))
	}
	if options.MaxConnection < 0 {
		result = multierror.Append(result, errors.New("max-connection may not be negative"))
	}

	return result
}
