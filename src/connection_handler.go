package src

import (
	"bufio"
	"errors"
	"fmt"
	"html"
	"io"
	"io/fs"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const CRLF = "\r\n"
const NBSP = "&nbsp;"
const SERVER_NAME = "go-http-server/0.0.1"

// Request line plus headers may not exceed this many bytes.
const MAX_REQUEST_HEAD_SIZE = 65537

const (
	MIN_ACCEPT_DELAY = 5 * time.Millisecond
	MAX_ACCEPT_DELAY = 1 * time.Second
)

// Server answers each connection with a single Response describing a file
// or directory below Root.
type Server struct {
	Root        string
	MaxFileSize int64
	ReadTimeout time.Duration
	Logger      *logrus.Logger

	// Now stamps the Date header. Defaults to time.Now.
	Now func() time.Time

	wg sync.WaitGroup
}

type ConnectionHandler struct {
	conn   net.Conn
	server *Server
	log    *logrus.Entry
}

// Serve accepts connections until the listener is closed, then waits for
// in-flight connections to finish. Temporary accept errors are retried with
// exponential backoff.
func (server *Server) Serve(listener net.Listener) error {
	defer server.wg.Wait()

	var delay time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}

			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Temporary() {
				if delay == 0 {
					delay = MIN_ACCEPT_DELAY
				} else {
					delay *= 2
				}
				if delay > MAX_ACCEPT_DELAY {
					delay = MAX_ACCEPT_DELAY
				}

				server.logger().WithError(err).Warnf("Accept error, retrying in %v", delay)
				time.Sleep(delay)
				continue
			}

			return fmt.Errorf("accept: %w", err)
		}
		delay = 0

		server.wg.Add(1)
		go func(c net.Conn) {
			defer server.wg.Done()
			server.ServeConn(c)
		}(conn)
	}
}

// ServeConn handles one connection and closes it.
func (server *Server) ServeConn(conn net.Conn) {
	handler := ConnectionHandler{
		conn:   conn,
		server: server,
		log: server.logger().WithFields(logrus.Fields{
			"conn_id":     uuid.NewString(),
			"remote_addr": conn.RemoteAddr().String(),
		}),
	}

	err := multierr.Append(handler.Handle(), conn.Close())
	if err != nil {
		handler.log.WithError(err).Warn("Connection finished with errors")
	}
}

func (server *Server) logger() *logrus.Logger {
	if server.Logger == nil {
		return logrus.StandardLogger()
	}
	return server.Logger
}

func (server *Server) now() time.Time {
	if server.Now == nil {
		return time.Now()
	}
	return server.Now()
}

// Handle reads the request head and sends exactly one response.
func (handler ConnectionHandler) Handle() error {
	if handler.server.ReadTimeout > 0 {
		if err := handler.conn.SetReadDeadline(time.Now().Add(handler.server.ReadTimeout)); err != nil {
			return fmt.Errorf("set read deadline: %w", err)
		}
	}

	var response Response
	line, err := readRequestHead(handler.conn)
	switch {
	case errors.Is(err, ErrRequestTooLarge):
		handler.log.WithError(err).Info("Rejecting request")
		response = errorResponse(STATUS_BAD_REQUEST, err)
	case err != nil:
		return fmt.Errorf("read request: %w", err)
	default:
		response = handler.respond(line)
	}

	handler.log.WithFields(logrus.Fields{
		"status":         response.StatusCode(),
		"content_length": response.ContentLength(),
	}).Info("Sending response")

	return response.Send(handler.conn)
}

// readRequestHead returns the request line once the header block up to the
// blank line has been consumed. A peer that stops sending early still gets
// its request line back.
func readRequestHead(r io.Reader) (string, error) {
	limited := &io.LimitedReader{R: r, N: MAX_REQUEST_HEAD_SIZE}
	reader := bufio.NewReader(limited)

	request_line := ""
	for first := true; ; first = false {
		text, err := reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return "", err
			}
			if limited.N <= 0 {
				return "", fmt.Errorf("%w: limit is %d bytes", ErrRequestTooLarge, MAX_REQUEST_HEAD_SIZE)
			}
			if first {
				if text == "" {
					return "", err
				}
				request_line = text
			}
			return strings.TrimRight(request_line, CRLF), nil
		}

		if first {
			request_line = text
			continue
		}
		if text == CRLF || text == "\n" {
			return strings.TrimRight(request_line, CRLF), nil
		}
	}
}

func (handler ConnectionHandler) respond(line string) Response {
	request_line, err := parseRequestLine(line)
	if err != nil {
		handler.log.WithError(err).Info("Rejecting request")
		return errorResponse(STATUS_BAD_REQUEST, err)
	}

	handler.log.WithField("uri", request_line.URI).Info("Requested")

	requested_path, err := confirmRequestedPath(request_line, handler.server.Root)
	if err != nil {
		return errorResponse(STATUS_BAD_REQUEST, err)
	}

	response, err := handler.serveGetRequest(request_line, requested_path)
	if err != nil {
		if errors.Is(err, ErrIllegalPath) {
			handler.log.WithError(err).Warn("Rejecting request")
			return errorResponse(STATUS_BAD_REQUEST, err)
		}
		if errors.Is(err, fs.ErrNotExist) {
			return errorResponse(STATUS_NOT_FOUND, nil)
		}
		handler.log.WithError(err).Error("Get request resulted in error")
		return errorResponse(STATUS_INTERNAL_SERVER_ERROR, err)
	}

	return response
}

func errorResponse(status_code string, err error) Response {
	body := StatusText(status_code)
	if err != nil {
		body = fmt.Sprintf("%s: %s", body, err)
	}

	return NewResponse(
		status_code,
		nil,
		fmt.Sprintf("<html><body><h1>%s</h1></body></html>", html.EscapeString(body)),
	)
}

func (handler ConnectionHandler) serveGetRequest(request_line RequestLine, requested_path string) (Response, error) {
	index_candidate_path := filepath.Join(requested_path, "index.html")
	if info, err := os.Stat(index_candidate_path); err == nil && !info.IsDir() {
		requested_path = index_candidate_path
	}

	if err := ensureWithinRoot(requested_path, handler.server.Root, request_line.URI); err != nil {
		return Response{}, err
	}

	info, err := os.Stat(requested_path)
	if err != nil {
		return Response{}, err
	}

	if info.IsDir() {
		listing, err := buildDirectoryListing(requested_path, handler.server.Root)
		if err != nil {
			return Response{}, err
		}
		return NewResponse(STATUS_OK, nil, listing), nil
	}

	content, err := handler.readFile(requested_path, info)
	if err != nil {
		return Response{}, err
	}

	disposition := "inline"
	if request_line.download {
		disposition = "attachment"
	}

	headers := Headers{
		"Server":              SERVER_NAME,
		"Date":                handler.server.now().UTC().Format(http.TimeFormat),
		"Content-Disposition": disposition,
		CONTENT_TYPE:          http.DetectContentType(content),
	}

	return NewResponse(STATUS_OK, headers, string(content)), nil
}

func (handler ConnectionHandler) readFile(fp string, info fs.FileInfo) ([]byte, error) {
	if info.Size() > handler.server.MaxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, info.Name(), info.Size(), handler.server.MaxFileSize)
	}

	handler.log.WithField("path", fp).Debug("Building content from file")

	content, err := os.ReadFile(fp)
	if err != nil {
		return nil, fmt.Errorf("could not read file %s: %w", info.Name(), err)
	}

	return content, nil
}

func buildDirectoryListing(fp string, root string) (string, error) {
	rel_dir, err := filepath.Rel(root, fp)
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", fp, err)
	}

	title := "/"
	if rel_dir != "." {
		title += filepath.ToSlash(rel_dir)
	}

	lines := []string{
		"<!DOCTYPE HTML>",
		"<html lang=\"en\">",
		"<head>",
		"<meta charset=\"utf-8\">",
		"<title>Basic HTTP Server in Golang</title>",
		"</head>",
		"<body>",
		fmt.Sprintf("<h1>Directory Listing for %s</h1>", html.EscapeString(title)),
	}

	read_dir, err := os.ReadDir(fp)
	if err != nil {
		return "", fmt.Errorf("read directory %s: %w", fp, err)
	}

	dirs := []string{}
	files := []string{}

	for _, entry := range read_dir {
		href := "/" + filepath.ToSlash(filepath.Join(rel_dir, entry.Name()))
		name := html.EscapeString(entry.Name())

		if entry.IsDir() {
			dirs = append(dirs, fmt.Sprintf("<li><a href=\"%s/\">%s/</a></li>", html.EscapeString(href), name))
		} else {
			space := strings.Repeat(NBSP, 4)
			files = append(files, fmt.Sprintf(
				"<li><a href=\"%s\">%s</a>%s<a href=\"/%s%s\">download</a></li>",
				html.EscapeString(href), name, space, DOWNLOAD, html.EscapeString(href)))
		}
	}

	sort.Strings(dirs)
	sort.Strings(files)
	lines = append(lines, "<ul>")
	lines = append(lines, dirs...)
	lines = append(lines, files...)
	lines = append(lines, "</ul>", "</body>", "</html>")

	return strings.Join(lines, "\n"), nil
}

// confirmRequestedPath maps the request URI onto a path below root. Dot
// segments may move around inside root but never above it.
func confirmRequestedPath(line RequestLine, root string) (string, error) {
	if !strings.HasPrefix(line.URI, "/") {
		return "", fmt.Errorf("%w: request URI %q does not begin with \"/\"", ErrIllegalPath, truncate(line.URI, MAX_ECHOED_LINE))
	}

	uri, _, _ := strings.Cut(line.URI, "?")
	unescaped, err := url.PathUnescape(uri)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIllegalPath, err)
	}

	depth := 0
	for _, segment := range strings.Split(unescaped, "/") {
		switch segment {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				return "", fmt.Errorf("%w: %q climbs above the served directory", ErrIllegalPath, truncate(line.URI, MAX_ECHOED_LINE))
			}
		default:
			depth++
		}
	}

	return filepath.Join(root, filepath.FromSlash(path.Clean("/"+unescaped))), nil
}

// ensureWithinRoot rejects paths whose symlinks resolve outside root.
func ensureWithinRoot(fp string, root string, uri string) error {
	resolved_root, err := filepath.EvalSymlinks(root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(fp)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(resolved_root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %q resolves outside the served directory", ErrIllegalPath, truncate(uri, MAX_ECHOED_LINE))
	}

	return nil
}
