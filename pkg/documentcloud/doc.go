// Package documentcloud is a client for the public DocumentCloud API.
//
// # Overview
//
// The API search endpoint returns documents as JSON objects. Each object is
// wrapped in a Document, which exposes the decoded fields through Record
// getters and derives resource URLs from the templates in its "resources"
// object.
//
//	client, err := documentcloud.NewClient(nil)
//	if err != nil {
//		return err
//	}
//
//	docs, err := client.Search(ctx, "ruben salazar")
//	if err != nil {
//		return err
//	}
//
//	text, err := docs[0].PageText(ctx, 1)
//
// # Resources
//
// Every document carries these URLs:
//   - text: the whole document's text
//   - pdf: the original upload
//   - page.text: per-page text, with a {page} placeholder
//   - page.image: per-page image, with {page} and {size} placeholders
//
// Size is one of small, thumbnail or large. Page numbers start at 1.
//
// # Error Handling
//
// Fields are not validated when a document is built. A missing field fails
// at access time with a *FieldError (errors.Is(err, ErrFieldNotFound)).
// Non-2xx responses are returned as *StatusError. Network and JSON errors
// are wrapped but not translated.
//
// # Known Limitations
//
//   - Only public documents are reachable; there is no authentication.
//   - Search trusts the server to end pagination with an empty page unless
//     Config.MaxPages is set. A page identical to the previous one is
//     reported as ErrRepeatedPage.
//   - Requests are not retried unless Config.MaxRetries is set.
package documentcloud
