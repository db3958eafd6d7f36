// Package transcriptiontest provides an in-process fake of the WhisperX
// HTTP API for tests.
//
// The fake applies the same upload checks as the real server (missing
// "audio" field, empty file name, disallowed extension, oversize) and
// counts every request so tests can assert that a rejected file never
// reached the network.
//
//	srv := transcriptiontest.NewServer(t)
//	srv.SetTranscribeResponse(http.StatusInternalServerError, gin.H{"error": "bad audio"})
//	p, _ := whisperx.NewProvider(whisperx.Config{BaseURL: srv.URL})
package transcriptiontest
