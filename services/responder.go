package services

import (
	"context"
	"strings"
	"time"

	"operator/models"
)

// codeKeywords trigger the canned code reply; anything else gets the
// preview reply. Matching is case-insensitive substring.
var codeKeywords = []string{"html", "css", "javascript", "code", "render", "preview"}

const (
	codeReplyContent    = "I've created a simple HTML, CSS, and JavaScript example based on your request. You can view and edit the code below:"
	previewReplyContent = "I'm displaying a preview of the requested URL."

	// ErrorReplyContent is appended as a system message when the simulated
	// call fails.
	ErrorReplyContent = "Sorry, there was an error processing your request. Please try again."
)

const sampleHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Example Page</title>
</head>
<body>
  <div class="container">
    <h1>Hello, World!</h1>
    <p>This is a simple example page.</p>
    <button id="changeColorBtn">Change Color</button>
  </div>
</body>
</html>`

const sampleCSS = `body {
  font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
  line-height: 1.6;
  color: #333;
  background-color: #f8f9fa;
  margin: 0;
  padding: 20px;
}

.container {
  max-width: 800px;
  margin: 0 auto;
  background-color: white;
  padding: 20px;
  border-radius: 8px;
  box-shadow: 0 2px 4px rgba(0,0,0,0.1);
}

h1 {
  color: #0066cc;
}

button {
  background-color: #0066cc;
  color: white;
  border: none;
  padding: 8px 16px;
  border-radius: 4px;
  cursor: pointer;
  transition: background-color 0.3s;
}

button:hover {
  background-color: #0052a3;
}`

const sampleJS = `document.addEventListener('DOMContentLoaded', () => {
  const button = document.getElementById('changeColorBtn');
  const heading = document.querySelector('h1');

  button.addEventListener('click', () => {
    const randomColor = '#' + Math.floor(Math.random()*16777215).toString(16);
    heading.style.color = randomColor;
  });
});`

// Reply is the outcome of one simulated model call.
type Reply struct {
	Content     string
	ShowPreview bool
	CodeBlocks  *models.CodePayload
}

// Responder simulates a model backend: after a fixed delay it returns one
// of two canned replies chosen by keyword matching. No network call is
// ever made.
type Responder struct {
	delay time.Duration
}

func NewResponder(delay time.Duration) *Responder {
	return &Responder{delay: delay}
}

// Respond waits the artificial delay, then classifies the input. The wait
// is cancellable: when the caller goes away the pending reply is dropped
// instead of racing a stale write.
func (r *Responder) Respond(ctx context.Context, input string) (*Reply, error) {
	if r.delay > 0 {
		timer := time.NewTimer(r.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if isCodeRequest(input) {
		return &Reply{
			Content: codeReplyContent,
			CodeBlocks: &models.CodePayload{
				HTML: sampleHTML,
				CSS:  sampleCSS,
				JS:   sampleJS,
			},
		}, nil
	}

	return &Reply{
		Content:     previewReplyContent,
		ShowPreview: true,
	}, nil
}

func isCodeRequest(input string) bool {
	lower := strings.ToLower(input)
	for _, kw := range codeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
