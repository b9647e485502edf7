package handler

import (
	"io/fs"
	"net/http"
	"strings"
)

// MediaFiles serves stored assets from root under prefix. Directory
// listings are not exposed.
func MediaFiles(prefix string, root string) http.Handler {
	files := http.FileServer(filesOnly{http.Dir(root)})
	return http.StripPrefix(prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}))
}

type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}

	return file, nil
}
