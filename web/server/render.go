package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-sky-pathtracer/pkg/renderer"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string `json:"scene"`      // Scene ID (e.g., "default")
	Width      int    `json:"width"`      // Image width
	Height     int    `json:"height"`     // Image height
	MaxSamples int    `json:"maxSamples"` // Maximum samples per pixel
	MaxPasses  int    `json:"maxPasses"`  // Maximum number of passes
	MaxDepth   int    `json:"maxDepth"`   // Maximum bounces per path, -1 keeps the scene value
}

// ProgressUpdate represents a single progressive update sent via SSE
type ProgressUpdate struct {
	PassNumber  int    `json:"passNumber"`
	TotalPasses int    `json:"totalPasses"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	Stats       Stats  `json:"stats"`
	IsComplete  bool   `json:"isComplete"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int                        `json:"totalPixels"`
	TotalSamples   int64                      `json:"totalSamples"`
	AverageSamples float64                    `json:"averageSamples"`
	MaxSamples     int                        `json:"maxSamples"`
	MinSamples     int                        `json:"minSamples"`
	MaxSamplesUsed int                        `json:"maxSamplesUsed"`
	AverageBounces float64                    `json:"averageBounces"`
	Terminations   renderer.TerminationCounts `json:"terminations"`
}

// parseRenderRequest parses and validates the query parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 256, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 256, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.MaxSamples, err = parseIntParam(values, "samples", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(values, "passes", 5, 1, maxPasses); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "depth", -1, 0, maxDepth); err != nil {
		return nil, err
	}
	return req, nil
}

// handleRender streams a progressive render as Server-Sent Events
func (s *Server) handleRender(c echo.Context) error {
	req, err := parseRenderRequest(c.QueryParams())
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	sc, err := s.createScene(req.Scene)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	// Zero samples and negative depth mean the scene's own setting
	sc.SamplingConfig.Width = req.Width
	sc.SamplingConfig.Height = req.Height
	if req.MaxSamples > 0 {
		sc.SamplingConfig.SamplesPerPixel = req.MaxSamples
	}
	if req.MaxDepth >= 0 {
		sc.SamplingConfig.MaxDepth = req.MaxDepth
	}

	w := c.Response()
	setSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)

	config := renderer.ProgressiveConfig{
		TileSize:           renderer.DefaultTileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: sc.SamplingConfig.SamplesPerPixel,
		MaxPasses:          req.MaxPasses,
		NumWorkers:         0, // Auto-detect
	}
	raytracer := renderer.NewProgressiveRaytracer(sc, req.Width, req.Height, config, webLogger)
	totalPasses := raytracer.Config().MaxPasses

	// Use request context to detect client disconnection
	ctx := c.Request().Context()
	startTime := time.Now()
	passChan, errChan := raytracer.RenderProgressive(ctx)

	// This goroutine is the only writer to w
	for passChan != nil {
		select {
		case msg := <-consoleChan:
			s.sendConsole(w, msg)
		case result, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			update, err := newProgressUpdate(result, totalPasses, startTime)
			if err != nil {
				return sendSSEEvent(w, "error", fmt.Sprintf("failed to encode image: %v", err))
			}
			if err := sendSSEJSON(w, "progress", update); err != nil {
				return nil
			}
		}
	}

	renderErr := <-errChan
	if renderErr != nil && ctx.Err() != nil {
		// Client disconnected
		return nil
	}
	if renderErr != nil {
		webLogger.Errorf("Render failed: %v", renderErr)
	}

	// Flush console messages logged after the last pass
	for drained := false; !drained; {
		select {
		case msg := <-consoleChan:
			s.sendConsole(w, msg)
		default:
			drained = true
		}
	}

	if renderErr != nil {
		return sendSSEEvent(w, "error", fmt.Sprintf("Render error: %v", renderErr))
	}

	return sendSSEEvent(w, "complete", "Rendering completed")
}

func newProgressUpdate(result renderer.PassResult, totalPasses int, startTime time.Time) (ProgressUpdate, error) {
	imageData, err := imageToBase64PNG(result.Frame.RGBA())
	if err != nil {
		return ProgressUpdate{}, err
	}
	return ProgressUpdate{
		PassNumber:  result.PassNumber,
		TotalPasses: totalPasses,
		ImageData:   imageData,
		Stats: Stats{
			TotalPixels:    result.Stats.TotalPixels,
			TotalSamples:   int64(result.Stats.TotalSamples),
			AverageSamples: result.Stats.AverageSamples,
			MaxSamples:     result.Stats.MaxSamples,
			MinSamples:     result.Stats.MinSamples,
			MaxSamplesUsed: result.Stats.MaxSamplesUsed,
			AverageBounces: result.Stats.AverageBounces,
			Terminations:   result.Stats.Terminations,
		},
		IsComplete: result.IsLast,
		ElapsedMs:  time.Since(startTime).Milliseconds(),
	}, nil
}

func (s *Server) sendConsole(w http.ResponseWriter, msg ConsoleMessage) {
	if err := sendSSEJSON(w, "console", msg); err != nil {
		s.logger.Debug("failed to send console message", "error", err)
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendSSEJSON sends a JSON-encoded SSE event
func sendSSEJSON(w http.ResponseWriter, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return sendSSEEvent(w, event, string(data))
}

// sendSSEEvent sends a generic SSE event
func sendSSEEvent(w http.ResponseWriter, event, data string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming not supported")
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
