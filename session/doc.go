// Package session drives one file through the transcription flow as an
// explicit state machine.
//
//	Idle ──SelectFile──▶ FileSelected ──Transcribe──▶ Transcribing ──▶ Succeeded
//	                          ▲                                   └──▶ Failed
//	                          └──────────── SelectFile ◀──────────────────┘
//
// The API status (Checking, Online, Offline) is tracked alongside and must be
// Online before a transcription may start. Reset returns to Idle.
package session
