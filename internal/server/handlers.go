package server

import (
	"errors"
	"net/http"
	"strings"

	log "log/slog"

	"jarvis/internal/config"
	"jarvis/internal/fileops"
	"jarvis/internal/lang"
	"jarvis/internal/locator"
	"jarvis/internal/songs"
	"jarvis/internal/voice"
)

const maxUpload = 25 << 20

type commandRequest struct {
	Command string `json:"command"`
}

type commandResponse struct {
	Response        string `json:"response"`
	Language        string `json:"language"`
	OriginalCommand string `json:"original_command"`
	Intent          string `json:"intent,omitempty"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if !readJSON(w, r, &req) {
		return
	}

	reply := s.Router.Route(r.Context(), req.Command)
	writeJSON(w, http.StatusOK, commandResponse{
		Response:        reply.Text,
		Language:        reply.Language,
		OriginalCommand: req.Command,
		Intent:          reply.Intent,
	})
}

// writeResult maps an operation result onto a status code.
func writeResult(w http.ResponseWriter, res fileops.Result) {
	status := http.StatusOK
	if !res.Success {
		switch res.Kind {
		case fileops.KindNotFound:
			status = http.StatusNotFound
		case fileops.KindInvalid, fileops.KindAmbiguous:
			status = http.StatusBadRequest
		case fileops.KindExists:
			status = http.StatusConflict
		case fileops.KindPermission:
			status = http.StatusForbidden
		case fileops.KindUnavailable:
			status = http.StatusServiceUnavailable
		default:
			status = http.StatusInternalServerError
		}
	}
	writeJSON(w, status, res)
}

type createRequest struct {
	Filename string `json:"filename"`
	Location string `json:"location"`
}

func (s *Server) handleFileCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !readJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Filename) == "" {
		writeResult(w, fileops.Result{Kind: fileops.KindInvalid, Message: "Filename is required"})
		return
	}
	writeResult(w, s.Files.CreateFile(req.Filename, req.Location))
}

type searchRequest struct {
	SearchTerm string `json:"search_term"`
	MaxResults int    `json:"max_results"`
}

func (s *Server) handleFileSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !readJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.SearchTerm) == "" {
		writeJSON(w, http.StatusBadRequest, locator.Result{Matches: []locator.Match{}, Message: "Search term is required"})
		return
	}
	if req.MaxResults <= 0 {
		req.MaxResults = locator.DefaultMaxResults
	}

	res := s.Locator.Find(req.SearchTerm, req.MaxResults)
	if res.Matches == nil {
		res.Matches = []locator.Match{}
	}
	writeJSON(w, http.StatusOK, res)
}

type openRequest struct {
	FilePath   string `json:"file_path"`
	FileNumber int    `json:"file_number"`
}

func (s *Server) handleFileOpen(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if !readJSON(w, r, &req) {
		return
	}

	switch {
	case req.FileNumber != 0:
		writeResult(w, s.Files.OpenIndex(r.Context(), req.FileNumber))
	case strings.TrimSpace(req.FilePath) != "":
		writeResult(w, s.Files.Open(r.Context(), req.FilePath))
	default:
		writeResult(w, fileops.Result{Kind: fileops.KindInvalid, Message: "File path or number is required"})
	}
}

func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.Files.CapturePhotoAndOpen(r.Context()))
}

func (s *Server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.Files.Screenshot(r.Context()))
}

type speakRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type okResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if !readJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "No text provided")
		return
	}
	if s.Speaker == nil {
		writeError(w, http.StatusServiceUnavailable, "speech is disabled")
		return
	}
	if req.Language == "" {
		req.Language = lang.Detect(req.Text)
	}

	s.Speaker.Say(req.Text, req.Language)
	writeJSON(w, http.StatusOK, okResponse{Success: true, Message: "Speech started"})
}

type translateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
}

type translateResponse struct {
	Success        bool   `json:"success"`
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if !readJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "No text provided")
		return
	}
	if req.TargetLang == "" {
		req.TargetLang = lang.English
	}

	out := req.Text
	if s.Translator != nil {
		out = s.Translator.Translate(r.Context(), req.Text, req.TargetLang)
	}
	writeJSON(w, http.StatusOK, translateResponse{
		Success:        true,
		TranslatedText: out,
		SourceLang:     lang.Detect(req.Text),
		TargetLang:     req.TargetLang,
	})
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

func (s *Server) handleAIQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !readJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "No query provided")
		return
	}
	if s.Responder == nil {
		writeError(w, http.StatusServiceUnavailable, "assistant is not configured")
		return
	}

	answer, ok := s.Responder.Answer(r.Context(), req.Query)
	if !ok {
		answer = "I'm not sure about that, sir."
	}
	writeJSON(w, http.StatusOK, queryResponse{Success: ok, Response: answer})
}

type songRequest struct {
	Action string `json:"action"`
	Lyrics string `json:"lyrics"`
}

type songResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Link     string `json:"link,omitempty"`
}

func (s *Server) handleSong(w http.ResponseWriter, r *http.Request) {
	var req songRequest
	if !readJSON(w, r, &req) {
		return
	}

	switch req.Action {
	case "listen":
		writeJSON(w, http.StatusOK, songResponse{Success: true, Response: songs.ListenReply})
		return
	case "sing":
		writeJSON(w, http.StatusOK, songResponse{Success: true, Response: songs.SingReply})
		return
	}

	reply, link := songs.Recognize(s.songTable(), req.Lyrics)
	if link != "" && s.Caps.Opener != nil && s.Caps.Opener.Available() {
		if err := s.Caps.Opener.Open(r.Context(), link); err != nil {
			log.Warn("Could not open song link", "url", link, "err", err)
		}
	}
	writeJSON(w, http.StatusOK, songResponse{Success: link != "", Response: reply, Link: link})
}

func (s *Server) songTable() []config.Song {
	if s.Songs == nil {
		return nil
	}
	return s.Songs()
}

type voiceResponse struct {
	Transcript string `json:"transcript"`
	Response   string `json:"response"`
	Language   string `json:"language"`
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if s.Voice == nil {
		writeError(w, http.StatusServiceUnavailable, "speech recognition is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'audio' is required")
		return
	}
	defer file.Close()

	text, err := s.Voice.TranscribeFile(r.Context(), file, header.Filename)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, voice.ErrNoRecognizer) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err.Error())
		return
	}

	reply := s.Router.Route(r.Context(), text)
	writeJSON(w, http.StatusOK, voiceResponse{Transcript: text, Response: reply.Text, Language: reply.Language})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.Status == nil {
		writeError(w, http.StatusServiceUnavailable, "system monitoring is not available")
		return
	}
	snap, err := s.Status.Collect(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type healthResponse struct {
	Status       string          `json:"status"`
	Capabilities map[string]bool `json:"capabilities"`
	WSClients    int             `json:"ws_clients"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		Capabilities: s.Caps.Available(),
		WSClients:    s.hub.Len(),
	})
}
