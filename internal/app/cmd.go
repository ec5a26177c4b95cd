package app

// Command merepresentasikan mode startup aplikasi.
type Command string

const (
	// CommandServe menjalankan server API + dashboard.
	CommandServe Command = "serve"
	// CommandHealthcheck menjalankan pemeriksaan kesehatan.
	// Untuk healthcheck Docker pada image distroless.
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand mem-parse subcommand dari argumen command line.
// Argumen kosong atau tidak dikenal menghasilkan CommandServe.
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "serve":
		return CommandServe
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}
