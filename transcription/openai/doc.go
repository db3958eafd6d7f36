// Package openai implements transcription.Provider on top of the OpenAI
// audio transcription API (or any server speaking the same protocol).
//
// Requests use the verbose_json format with segment and word timestamp
// granularities so the result carries the same time-aligned structure as
// the WhisperX backend. Health is a model listing call.
package openai
