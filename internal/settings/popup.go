package settings

import (
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickprogramme/transcopy/internal/templatestore"
	"github.com/patrickprogramme/transcopy/pkg/model"
	"github.com/rs/zerolog"
)

// durée d'affichage du message, comme la notification
const messageVisibleMs = 3000

var popupTemplate = template.Must(template.New("popup").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Transcript Copier</title>
<style>
body { font-family: system-ui, sans-serif; width: 420px; margin: 16px; }
textarea { width: 100%; height: 260px; font-family: monospace; font-size: 12px; }
.hint { color: #666; font-size: 12px; }
.buttons { display: flex; gap: 8px; margin-top: 8px; }
.message { margin-top: 8px; padding: 6px 8px; border-radius: 4px; transition: opacity .3s; }
.message.success { background: #e6f4ea; color: #1e7e34; }
.message.error { background: #fdecea; color: #b3261e; }
.message.hide { opacity: 0; }
</style>
</head>
<body>
<h1>Transcript Copier</h1>
<form method="post" action="/save">
<label for="template-input">Prompt template</label>
<textarea id="template-input" name="template">{{.Template}}</textarea>
<p class="hint">Use <code>{{.Placeholder}}</code> where the transcript goes.</p>
<div class="buttons">
<button type="submit" formaction="/reset" id="reset-btn">Reset</button>
<button type="submit" id="save-btn">Save</button>
</div>
</form>
{{with .Notice}}<div id="message" class="message {{.Kind}}">{{.Message}}</div>
<script>setTimeout(function () { document.getElementById("message").classList.add("hide"); }, {{$.VisibleMs}});</script>{{end}}
</body>
</html>`))

type popupData struct {
	Template    string
	Placeholder string
	Notice      *model.Notice
	VisibleMs   int
}

type popup struct {
	editor *Editor
	log    zerolog.Logger
}

// NewHandler construit le routeur du popup. metricsHandler (optionnel) est
// servi sur /metrics.
func NewHandler(e *Editor, log zerolog.Logger, metricsHandler http.Handler) http.Handler {
	p := &popup{editor: e, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", p.show)
	r.Post("/save", p.save)
	r.Post("/reset", p.reset)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}
	return r
}

func (p *popup) show(w http.ResponseWriter, r *http.Request) {
	p.render(w, http.StatusOK, p.editor.Load(r.Context()), nil)
}

func (p *popup) save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	input := r.PostFormValue("template")

	notice, err := p.editor.Save(r.Context(), input)
	switch {
	case errors.Is(err, ErrEmptyTemplate):
		p.render(w, http.StatusUnprocessableEntity, input, &notice)
	case err != nil:
		p.log.Error().Err(err).Msg("template save failed")
		p.render(w, http.StatusInternalServerError, input, &notice)
	default:
		p.log.Info().Int("chars", len(input)).Msg("template saved")
		p.render(w, http.StatusOK, p.editor.Load(r.Context()), &notice)
	}
}

func (p *popup) reset(w http.ResponseWriter, _ *http.Request) {
	text, notice := p.editor.Reset()
	p.render(w, http.StatusOK, text, &notice)
}

func (p *popup) render(w http.ResponseWriter, status int, text string, notice *model.Notice) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	err := popupTemplate.Execute(w, popupData{
		Template:    text,
		Placeholder: templatestore.Placeholder,
		Notice:      notice,
		VisibleMs:   messageVisibleMs,
	})
	if err != nil {
		p.log.Error().Err(err).Msg("render popup")
	}
}

// ListenAndServe sert h sur addr jusqu'à l'annulation de ctx. onReady reçoit
// l'URL effective (utile avec un port 0).
func ListenAndServe(ctx context.Context, addr string, h http.Handler, log zerolog.Logger, onReady func(url string)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("popup server listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	if onReady != nil {
		onReady("http://" + ln.Addr().String() + "/")
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info().Msg("shutting down popup server")
	return srv.Shutdown(shutdownCtx)
}
