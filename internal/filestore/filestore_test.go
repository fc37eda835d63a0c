package filestore_test

import (
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/flexiforms/FlexiForms/internal/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSaveAndOpen(t *testing.T) {
	fs, err := filestore.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	stored, err := fs.Save(strings.NewReader("file content"), "resume.pdf")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d+-resume\.pdf$`), stored)

	file, err := fs.Open(stored)
	require.NoError(t, err)
	defer file.Close()

	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "file content", string(data))
}

// Имя файла очищается от путей и пробелов
func TestSave_SanitizesName(t *testing.T) {
	fs, err := filestore.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	stored, err := fs.Save(strings.NewReader("x"), "../../etc/my passwd.txt")
	require.NoError(t, err)
	assert.NotContains(t, stored, "/")
	assert.NotContains(t, stored, " ")
	assert.True(t, strings.HasSuffix(stored, "my_passwd.txt"))
}

// Токен не выводит за пределы каталога загрузок
func TestOpen_RejectsPathTraversal(t *testing.T) {
	fs, err := filestore.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	_, err = fs.Open("../secret")
	assert.Error(t, err)
}
