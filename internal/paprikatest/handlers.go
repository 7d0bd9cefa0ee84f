package paprikatest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/gzip"
)

const maxUploadBytes = 10 << 20 // 10 MB

// Upload records one recipe write as the fake received it.
type Upload struct {
	UID      string      // uid from the URL
	Header   http.Header // request headers
	Parts    int         // number of multipart parts (fields and files)
	Names    []string    // names of all parts, sorted
	FileName string      // file name of the file part
	Gzip     []byte      // raw part content
	JSON     []byte      // content after gunzip
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid form"))
		return
	}
	s.mu.Lock()
	ok := r.PostForm.Get("email") == s.email && r.PostForm.Get("password") == s.password
	token := s.token
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("Invalid email address or password."))
		return
	}
	writeJSON(w, http.StatusOK, result(map[string]string{"token": token}))
}

func (s *Server) listRecipes(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	entries := make([]recipeHead, 0, len(s.order))
	for _, uid := range s.order {
		var head recipeHead
		_ = json.Unmarshal(s.recipes[uid], &head)
		entries = append(entries, recipeHead{UID: uid, Hash: head.Hash})
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, result(entries))
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	cats := s.categories
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, result(cats))
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	raw, ok := s.Recipe(uid)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("Recipe not found"))
		return
	}
	writeJSON(w, http.StatusOK, result(raw))
}

// uploadRecipe handles POST /sync/recipe/{uid}/ (multipart, file part "data").
func (s *Server) uploadRecipe(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid multipart"))
		return
	}

	file, header, err := r.FormFile("data")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'data' file in multipart form"))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("unreadable upload"))
		return
	}

	up := Upload{
		UID:      uid,
		Header:   r.Header.Clone(),
		FileName: header.Filename,
		Gzip:     raw,
	}
	for name, v := range r.MultipartForm.Value {
		up.Parts += len(v)
		up.Names = append(up.Names, name)
	}
	for name, f := range r.MultipartForm.File {
		up.Parts += len(f)
		up.Names = append(up.Names, name)
	}
	slices.Sort(up.Names)

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		s.record(up)
		writeJSON(w, http.StatusBadRequest, errorBody("upload is not gzip"))
		return
	}
	up.JSON, err = io.ReadAll(zr)
	if err != nil {
		s.record(up)
		writeJSON(w, http.StatusBadRequest, errorBody("corrupt gzip stream"))
		return
	}
	s.record(up)

	var head recipeHead
	if err := json.Unmarshal(up.JSON, &head); err != nil || head.UID != uid {
		writeJSON(w, http.StatusOK, result(false))
		return
	}

	s.mu.Lock()
	reject := s.reject
	if !reject {
		s.putLocked(uid, json.RawMessage(up.JSON))
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, result(!reject))
}

func (s *Server) record(up Upload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, up)
}
