// Package httpclient provides a configurable HTTP adapter used by the
// transcription backends: base URL resolution, default headers, multipart
// uploads, typed status classification and generic JSON helpers.
//
// Every call is a single attempt. Timeout in Config bounds a whole request;
// when it is zero the caller's context is the only deadline.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "http://localhost:5000",
//	    Timeout: 10 * time.Second,
//	})
//
//	resp, err := httpclient.Get[Health](client, ctx, "/api/health")
//
// # Multipart Upload
//
//	body := &httpclient.MultipartBody{
//	    Files: []httpclient.FileField{{FieldName: "audio", FileName: "a.wav", Reader: f}},
//	}
//	resp, err := client.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/api/transcribe", Body: body})
//	result, err := httpclient.DecodeJSON[Result](resp)
package httpclient
