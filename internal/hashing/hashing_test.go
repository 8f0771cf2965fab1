package hashing

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"veritas/pkg/platform/sentinel"
)

type EngineSuite struct {
	suite.Suite
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.engine = NewEngine()
}

func (s *EngineSuite) TestDigestTextKnownVector() {
	// sha256("abc") is a fixed test vector.
	s.Equal(
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		s.engine.DigestText("abc"),
	)
}

func (s *EngineSuite) TestDigestTextDeterministic() {
	payload := `{"project_name":"River Dam","consensus":"Granted"}`
	first := s.engine.DigestText(payload)
	second := s.engine.DigestText(payload)
	s.Equal(first, second)
	s.Len(first, 64)
}

func (s *EngineSuite) TestDigestTextSingleByteChange() {
	a := s.engine.DigestText("field evidence v1")
	b := s.engine.DigestText("field evidence v2")
	s.NotEqual(a, b)
}

func (s *EngineSuite) TestDigestBytesMatchesText() {
	payload := "the same bytes must always fingerprint identically"
	fromReader, err := s.engine.DigestBytes(strings.NewReader(payload))
	s.Require().NoError(err)
	s.Equal(s.engine.DigestText(payload), fromReader)
}

func (s *EngineSuite) TestDigestBytesReadFault() {
	_, err := s.engine.DigestBytes(failingReader{})
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrContentUnavailable))
}

func (s *EngineSuite) TestDigestFile() {
	dir := s.T().TempDir()
	path := filepath.Join(dir, "photo_001.jpg")
	require.NoError(s.T(), os.WriteFile(path, []byte("jpeg bytes"), 0o600))

	digest, err := s.engine.DigestFile(path)
	s.Require().NoError(err)
	s.Equal(s.engine.DigestText("jpeg bytes"), digest)
}

func (s *EngineSuite) TestDigestFileMissing() {
	_, err := s.engine.DigestFile(filepath.Join(s.T().TempDir(), "missing.mp4"))
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrContentUnavailable))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device detached")
}
