package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/session"
	"github.com/kbukum/scribe/transcription"
	"github.com/kbukum/scribe/transcription/export"
)

var errFailed = stderrors.New("one or more operations failed")

func healthCmd(ctx context.Context, env *environment, stdout io.Writer) error {
	out := env.client.CheckHealth(ctx)
	if !out.OK {
		fmt.Fprintf(stdout, "API offline: %s (%s)\n", out.ErrorMessage(), out.Kind())
		return errFailed
	}

	h := out.Payload
	fmt.Fprintf(stdout, "API online: %s", h.Status)
	var details []string
	if h.Device != "" {
		details = append(details, "device="+h.Device)
	}
	if h.ComputeType != "" {
		details = append(details, "compute_type="+h.ComputeType)
	}
	if len(details) > 0 {
		fmt.Fprintf(stdout, " (%s)", strings.Join(details, ", "))
	}
	fmt.Fprintln(stdout)
	return nil
}

type transcribeOptions struct {
	outDir   string
	json     bool
	language string
	model    string
	files    []string
}

func parseTranscribeFlags(args []string, stderr io.Writer) (transcribeOptions, error) {
	fs := flag.NewFlagSet("transcribe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts transcribeOptions
	fs.StringVar(&opts.outDir, "o", ".", "directory for transcript files")
	fs.BoolVar(&opts.json, "json", false, "print JSON to stdout instead of writing files")
	fs.StringVar(&opts.language, "language", "", "language hint, e.g. en")
	fs.StringVar(&opts.model, "model", "", "model override")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.files = fs.Args()
	if len(opts.files) == 0 {
		fmt.Fprintln(stderr, "transcribe: no files given")
		return opts, flag.ErrHelp
	}
	return opts, nil
}

func transcribeCmd(ctx context.Context, env *environment, opts transcribeOptions, stdout io.Writer) error {
	var printed int
	var current string
	sess := session.New(env.client,
		session.WithLogger(env.app.Logger),
		session.OnChange(func(snap session.Snapshot) {
			for ; printed < len(snap.Progress); printed++ {
				fmt.Fprintf(stdout, "%s: %s\n", current, snap.Progress[printed])
			}
		}),
	)

	if status := sess.CheckAPI(ctx); status != session.APIOnline {
		fmt.Fprintf(stdout, "API %s, nothing transcribed\n", status)
		return errFailed
	}

	failed := 0
	for _, path := range opts.files {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		current, printed = path, 0
		if err := transcribeFile(ctx, sess, path, opts, stdout); err != nil {
			fmt.Fprintf(stdout, "%s: failed: %s\n", path, describe(err))
			failed++
		}
		_ = sess.Reset()
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", errFailed, failed, len(opts.files))
	}
	return nil
}

func transcribeFile(ctx context.Context, sess *session.Session, path string, opts transcribeOptions, stdout io.Writer) error {
	ctx, span := observability.StartSpan(ctx, serviceName+".transcribe_file")
	defer span.End()

	file, closer, err := transcription.OpenFile(path)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return err
	}
	defer closer.Close()

	observability.SetSpanAttribute(ctx, observability.AttrFileName, file.Name)
	observability.SetSpanAttribute(ctx, observability.AttrFileSize, file.Size)
	observability.SetSpanAttribute(ctx, observability.AttrMIMEType, file.MIMEType)

	if err := sess.SelectFile(file); err != nil {
		observability.SetSpanError(ctx, err)
		return err
	}

	out := sess.Transcribe(ctx)
	if !out.OK {
		observability.SetSpanError(ctx, out.Err)
		return out.Err
	}
	observability.SetSpanAttribute(ctx, observability.AttrLanguage, out.Payload.Language)
	observability.SetSpanAttribute(ctx, observability.AttrSegments, len(out.Payload.Segments))

	doc := export.NewDocument(path, out.Payload, time.Now())
	if opts.json {
		return export.WriteJSON(stdout, doc)
	}

	saved, err := export.Save(opts.outDir, doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: saved %s\n", path, saved)
	return nil
}

// describe renders an error for the terminal, preferring the AppError's
// own message over its code-prefixed Error string.
func describe(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return fmt.Sprintf("%s (%s)", appErr.Message, appErr.Code)
	}
	return err.Error()
}
