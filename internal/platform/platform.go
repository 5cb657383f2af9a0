package platform

import (
	"io"

	"dropwire/drop-agent/internal/picker"
)

// CredentialKeyAuthToken is the fixed key under which the auth token lives in
// every credential store.
const CredentialKeyAuthToken = "authToken"

// uploadFieldName is the multipart field carrying the photo.
const uploadFieldName = "photo"

// Environment captures the pieces of the upload flow that differ between
// execution runtimes: where credentials live and how the multipart payload is
// built. Upload logic calls only this interface and never branches on the
// runtime itself.
type Environment interface {
	// Name identifies the runtime ("web" or "native").
	Name() string

	// Credentials returns the runtime's credential store.
	Credentials() CredentialStore

	// EncodeUploadBody builds the multipart payload for a picked image and
	// returns the body together with its Content-Type.
	EncodeUploadBody(ref *picker.ImageRef) (io.Reader, string, error)
}

// CredentialStore reads and writes credentials keyed by a fixed identifier.
// A missing key is not an error: Get returns an empty value and the upload
// proceeds unauthenticated, relying on the server to reject it.
type CredentialStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
}
