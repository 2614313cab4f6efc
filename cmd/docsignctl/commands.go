package main

import (
	"encoding/json"
	"io"
	"net/url"
	"os"
	"strings"

	"docsign/pkg/pdfload"
	"docsign/pkg/signid"
	"docsign/pkg/signpage"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newResolveCmd(a *app) *cobra.Command {
	var payloadPath, query string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the sign application id from a query string and a session payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
			if err != nil {
				return fail(cmd, "resolve", errors.Wrap(err, "parse query"), nil)
			}
			var payload map[string]any
			if payloadPath != "" {
				payload, err = readPayload(cmd, payloadPath)
				if err != nil {
					return fail(cmd, "resolve", err, nil)
				}
			}
			if res := signid.Resolve(q, payload); res != nil {
				printSummary(cmd.OutOrStdout(), "resolve", "PASS", map[string]any{
					"sign_application_id": res.ID,
					"provenance":          res.Provenance,
					"source":              res.Source,
					"pdf_url":             a.norm.Resolve(a.client.PDFURL(res.ID)),
				})
				return nil
			}
			raw := signid.RawFileReference(payload)
			fields := map[string]any{"raw_file_ref": raw}
			if raw != "" {
				fields["pdf_url"] = a.norm.Resolve(raw)
			}
			printSummary(cmd.OutOrStdout(), "resolve", "NONE", fields)
			return nil
		},
	}
	cmd.Flags().StringVar(&payloadPath, "payload", "", "session payload json file, - for stdin")
	cmd.Flags().StringVar(&query, "query", "", "page query string, e.g. signApplicationId=...")
	return cmd
}

func readPayload(cmd *cobra.Command, path string) (map[string]any, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open payload")
		}
		defer f.Close()
		r = f
	}
	var payload map[string]any
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decode payload")
	}
	return payload, nil
}

func newSessionCmd(a *app) *cobra.Command {
	var query, lang string
	cmd := &cobra.Command{
		Use:   "session <signatoryId>",
		Short: "Open a signing session the way the signing page does and summarize it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
			if err != nil {
				return fail(cmd, "session", errors.Wrap(err, "parse query"), nil)
			}
			view := signpage.NewView()
			state := a.orch.Run(cmd.Context(), signpage.Request{SignatoryID: args[0], Query: q, Locale: lang}, view)
			snap := view.Snapshot()
			fields := map[string]any{
				"signatory_id": args[0],
				"state":        state,
				"diagnostics":  snap.Diagnostics,
			}
			if snap.Page != nil {
				fields["signers"] = snap.Page.Signers
				fields["can_sign"] = snap.Page.CanSign
				fields["file_name"] = snap.Page.FileName
			}
			if snap.PDF != nil {
				fields["pdf"] = map[string]any{"url": snap.PDF.URL, "size": snap.PDF.Size, "degraded": snap.PDF.Degraded, "from_cache": snap.PDF.FromCache}
			}
			if state == signpage.StateError {
				fields["message"] = snap.Error.Message
				if snap.Error.Status != 0 {
					fields["http_status"] = snap.Error.Status
				}
				return fail(cmd, "session", errors.New(snap.Error.Detail), fields)
			}
			printSummary(cmd.OutOrStdout(), "session", "PASS", fields)
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "page query string")
	cmd.Flags().StringVar(&lang, "lang", "", "locale: ru or kk")
	return cmd
}

func newFetchPDFCmd(a *app) *cobra.Command {
	var id, rawURL, out string
	cmd := &cobra.Command{
		Use:   "fetch-pdf",
		Short: "Load a document by sign application id or URL through the pdf cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (id == "") == (rawURL == "") {
				return fail(cmd, "fetch-pdf", errors.New("exactly one of --id or --url is required"), nil)
			}
			view := signpage.NewView()
			var doc *pdfload.Document
			var err error
			if id != "" {
				doc, err = a.orch.LoadPDFFor(cmd.Context(), id, "", view)
			} else {
				doc, err = a.loader.Load(cmd.Context(), a.norm.Resolve(rawURL), "", view)
			}
			fields := map[string]any{"sign_application_id": id, "policy": a.loader.Policy()}
			if snap := view.Snapshot(); snap.PDF != nil {
				fields["url"] = snap.PDF.URL
			}
			if err != nil {
				return fail(cmd, "fetch-pdf", err, fields)
			}
			fields["size"] = len(doc.Data)
			fields["from_cache"] = doc.FromCache
			if out != "" {
				if err := os.WriteFile(out, doc.Data, 0o644); err != nil {
					return fail(cmd, "fetch-pdf", errors.Wrap(err, "write pdf"), fields)
				}
				fields["out"] = out
			}
			printSummary(cmd.OutOrStdout(), "fetch-pdf", "PASS", fields)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "sign application id")
	cmd.Flags().StringVar(&rawURL, "url", "", "document url or file reference")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the document to this path")
	return cmd
}

func newSignCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sign <signatoryId>",
		Short: "Start the signing process and print the sign link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link, err := a.orch.InitiateSigning(cmd.Context(), args[0])
			fields := map[string]any{"signatory_id": args[0]}
			if err != nil {
				return fail(cmd, "sign", err, fields)
			}
			fields["sign_link"] = link
			printSummary(cmd.OutOrStdout(), "sign", "PASS", fields)
			return nil
		},
	}
}

func newLookupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Fetch reference records by id or registration number",
	}
	for _, kind := range []string{"company", "order", "resume"} {
		kind := kind
		cmd.AddCommand(&cobra.Command{
			Use:   kind + " <key>",
			Short: "Look up a " + kind,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				rec, err := a.lookups.Get(cmd.Context(), kind, args[0])
				fields := map[string]any{"kind": kind, "key": args[0]}
				if err != nil {
					return fail(cmd, "lookup", err, fields)
				}
				fields["record"] = rec
				printSummary(cmd.OutOrStdout(), "lookup", "PASS", fields)
				return nil
			},
		})
	}
	return cmd
}
