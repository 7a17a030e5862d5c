package version

import (
	"fmt"
	"strconv"
	"time"
)

// Version is the application version. Can be overridden at build time via:
//
//	go build -ldflags "-X winsbygroup.com/leadserver/internal/version.Version=1.2.3"
var Version = "1.0"

// RepoURL is the project repository URL. Can be overridden at build time via:
//
//	go build -ldflags "-X winsbygroup.com/leadserver/internal/version.RepoURL=https://github.com/yourfork/leadserver"
var RepoURL = "https://github.com/winsbygroup/leadserver"

// Banner prints identifying information about the server.
func Banner() string {
	y := strconv.Itoa(time.Now().Year())
	copyright := "Copyright 2025-" + y + " Winsby Group LLC. All rights reserved."

	return fmt.Sprintf("%s\nLeadserver (v%s)\n%s\n", product(), Version, copyright)
}

func product() string {
	// http://patorjk.com/software/taag/#p=display&f=Standard&t=Leadserver
	// it includes back ticks, which makes this more difficult (replace with `+"`"+`).

	const s = `
  _                    _
 | |    ___  __ _  __| |___  ___ _ ____   _____ _ __
 | |   / _ \/ _` + "`" + ` |/ _` + "`" + ` / __|/ _ \ '__\ \ / / _ \ '__|
 | |__|  __/ (_| | (_| \__ \  __/ |   \ V /  __/ |
 |_____\___|\__,_|\__,_|___/\___|_|    \_/ \___|_|
`
	return s
}
