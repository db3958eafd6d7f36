// Command scribe checks and uses a remote transcription service.
//
// Usage:
//
//	scribe [global flags] health
//	scribe [global flags] transcribe [-o dir] [-json] [-language code] [-model name] file...
//	scribe version
//
// Global flags:
//
//	-config path   config file (default: scribe.yml, config.yml, ...)
//	-env path      .env file
//	-backend name  whisperx or openai
//	-url url       backend base URL
//
// Exit status is 0 on success, 1 when any operation fails and 2 on usage
// errors.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
