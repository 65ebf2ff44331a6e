package cloudinary

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{CloudName: "demo"}, zerolog.Nop())
	require.Error(t, err)
}

func TestPlacementUsesDocumentTypeFolder(t *testing.T) {
	store := &DocumentStore{folder: "scholarship/documents"}

	folder, publicID := store.placement("valid_id/My ID (front).png")
	require.Equal(t, "scholarship/documents/valid_id", folder)
	require.True(t, strings.HasPrefix(publicID, "My-ID--front-"), publicID)

	folder, publicID = store.placement("../..")
	require.Equal(t, "scholarship/documents", folder)
	require.True(t, strings.HasPrefix(publicID, "document-"), publicID)
}
