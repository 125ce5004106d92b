package testutil

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Credentials accepted by the /basic endpoint.
const (
	BasicUser     = "fixture"
	BasicPassword = "s3cret"
)

// Values sent by the fixture endpoints.
const (
	CustomHeader      = "X-Custom-Header"
	CustomHeaderValue = `Custom "Value"; with=params, and commas`
	SessionCookie     = "session"
	SessionValue      = "fixture-session"
	MetadataETag      = `"v1-abc123"`
	Latin1Text        = "café crème"
)

// EventStream is the body served by /events.
const EventStream = ": connected\n\n" +
	"id: 1\nevent: greeting\ndata: {\"Result\":\"Hello\"}\n\n" +
	"data: line one\ndata: line two\n\n" +
	"id: 2\nretry: 1500\ndata: bye\n\n"

// Greeting is the body of the /hello endpoints.
type Greeting struct {
	Result string `json:"Result" xml:"Result" yaml:"Result" toml:"Result"`
}

type xmlGreeting struct {
	XMLName xml.Name `xml:"Greeting"`
	Result  string   `xml:"Result"`
}

// RecordedRequest is the part of an incoming request tests assert on.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Host     string
	Close    bool
	Header   http.Header
	Cookies  []*http.Cookie
}

// UploadedFile is a file part received by /fileupload.
type UploadedFile struct {
	FieldName        string
	Filename         string
	ContentType      string
	TransferEncoding string
	Content          []byte
}

// Upload is a body received by /fileupload.
type Upload struct {
	Method        string
	ContentType   string
	ContentLength int64
	Expect        string
	Fields        map[string]string
	Files         []UploadedFile
	Body          []byte
}

// FixtureServer serves the client test endpoints over httptest.
type FixtureServer struct {
	mu       sync.Mutex
	engine   *gin.Engine
	srv      *httptest.Server
	requests []RecordedRequest
	uploads  []Upload
}

var _ TestComponent = (*FixtureServer)(nil)

// NewFixtureServer creates a stopped fixture server.
func NewFixtureServer() *FixtureServer {
	gin.SetMode(gin.TestMode)
	s := &FixtureServer{engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.record)
	s.routes()
	return s
}

// Name implements TestComponent.
func (s *FixtureServer) Name() string { return "fixture-server" }

// Start implements TestComponent.
func (s *FixtureServer) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		s.srv = httptest.NewServer(s.engine)
	}
	return nil
}

// Stop implements TestComponent.
func (s *FixtureServer) Stop(_ context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()
	if srv != nil {
		srv.Close()
	}
	return nil
}

// Reset implements TestComponent.
func (s *FixtureServer) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
	s.uploads = nil
	return nil
}

// URL returns the base URL of a started server.
func (s *FixtureServer) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return ""
	}
	return s.srv.URL
}

// Handler returns the gin engine.
func (s *FixtureServer) Handler() http.Handler { return s.engine }

// Requests returns every request received since the last reset.
func (s *FixtureServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent request.
func (s *FixtureServer) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Uploads returns every upload received since the last reset.
func (s *FixtureServer) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

func (s *FixtureServer) record(c *gin.Context) {
	r := c.Request
	rec := RecordedRequest{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Host:     r.Host,
		Close:    r.Close,
		Header:   r.Header.Clone(),
		Cookies:  r.Cookies(),
	}
	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()
	c.Next()
}

func (s *FixtureServer) routes() {
	r := s.engine

	r.GET("/hello", func(c *gin.Context) {
		c.JSON(http.StatusOK, Greeting{Result: "Hello, " + c.DefaultQuery("name", "World")})
	})
	r.HEAD("/hello", func(c *gin.Context) {
		c.Header(CustomHeader, CustomHeaderValue)
		c.Status(http.StatusOK)
	})
	r.OPTIONS("/hello", func(c *gin.Context) {
		c.Header("Allow", "GET, HEAD, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Status(http.StatusOK)
	})
	r.GET("/hello/:name", func(c *gin.Context) {
		c.JSON(http.StatusOK, Greeting{Result: "Hello, " + c.Param("name")})
	})
	r.GET("/hello/:name/:greeting", func(c *gin.Context) {
		c.JSON(http.StatusOK, Greeting{Result: c.Param("greeting") + ", " + c.Param("name")})
	})
	r.DELETE("/hello/:name", func(c *gin.Context) {
		c.JSON(http.StatusOK, Greeting{Result: "Goodbye, " + c.Param("name")})
	})
	r.GET("/hello.xml", func(c *gin.Context) {
		c.XML(http.StatusOK, xmlGreeting{Result: "Hello, World"})
	})
	r.GET("/hello.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", []byte("Result: Hello, World\n"))
	})

	echo := func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		ct := c.ContentType()
		if ct == "" {
			ct = "text/plain"
		}
		c.Data(http.StatusOK, ct, body)
	}
	r.POST("/echo", echo)
	r.PUT("/echo", echo)
	r.PATCH("/echo", echo)

	r.POST("/fileupload", s.multipartUpload)
	r.PUT("/fileupload", s.rawUpload)

	r.GET("/cookie", func(c *gin.Context) {
		c.SetCookie(SessionCookie, SessionValue, 3600, "/", "", false, true)
		c.String(http.StatusOK, "cookie set")
	})
	r.GET("/cookie/echo", func(c *gin.Context) {
		out := map[string]string{}
		for _, ck := range c.Request.Cookies() {
			out[ck.Name] = ck.Value
		}
		c.JSON(http.StatusOK, out)
	})

	r.GET("/redirector", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/redirector/redirected")
	})
	r.GET("/redirector/redirected", func(c *gin.Context) {
		c.String(http.StatusOK, "redirected")
	})
	r.GET("/redirector/loop", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/redirector/loop")
	})

	r.GET("/users", func(c *gin.Context) {
		c.Header(CustomHeader, CustomHeaderValue)
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	})
	r.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	r.GET("/fail", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "boom")
	})

	r.GET("/basic", func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok || user != BasicUser || pass != BasicPassword {
			c.Header("WWW-Authenticate", `Basic realm="fixture"`)
			c.String(http.StatusUnauthorized, "unauthorized")
			return
		}
		c.JSON(http.StatusOK, Greeting{Result: "Hello, " + user})
	})

	r.GET("/gzip", func(c *gin.Context) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write([]byte(`{"Result":"Hello, gzip"}`))
		_ = zw.Close()
		c.Header("Content-Encoding", "gzip")
		c.Data(http.StatusOK, "application/json", buf.Bytes())
	})
	r.GET("/deflate", func(c *gin.Context) {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		_, _ = zw.Write([]byte(`{"Result":"Hello, deflate"}`))
		_ = zw.Close()
		c.Header("Content-Encoding", "deflate")
		c.Data(http.StatusOK, "application/json", buf.Bytes())
	})
	r.GET("/latin1", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/plain; charset=iso-8859-1", []byte("caf\xe9 cr\xe8me"))
	})

	r.GET("/metadata", func(c *gin.Context) {
		c.Header("ETag", MetadataETag)
		c.Header("Age", "42")
		c.Header("Expires", "Wed, 21 Oct 2015 07:28:00 GMT")
		c.Header("Last-Modified", "Tue, 20 Oct 2015 07:28:00 GMT")
		c.Header("Content-Language", "en-GB")
		c.Header("Content-Location", "/metadata/1")
		c.Header("Content-Disposition", `attachment; filename="report.txt"`)
		c.Header("Cache-Control", "max-age=60")
		c.String(http.StatusOK, "metadata")
	})
	r.GET("/events", func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache")
		c.Data(http.StatusOK, "text/event-stream", []byte(EventStream))
	})
	r.GET("/download", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/octet-stream", DownloadContent())
	})
	r.GET("/slow", func(c *gin.Context) {
		ms, _ := strconv.Atoi(c.DefaultQuery("ms", "500"))
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
			c.String(http.StatusOK, "done")
		case <-c.Request.Context().Done():
		}
	})
}

// DownloadContent is the body served by /download.
func DownloadContent() []byte {
	data := make([]byte, 20000)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func (s *FixtureServer) multipartUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	up := Upload{
		Method:        c.Request.Method,
		ContentType:   c.GetHeader("Content-Type"),
		ContentLength: c.Request.ContentLength,
		Fields:        map[string]string{},
	}
	for name, values := range form.Value {
		if len(values) > 0 {
			up.Fields[name] = values[0]
		}
	}
	for field, headers := range form.File {
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				c.String(http.StatusInternalServerError, err.Error())
				return
			}
			content, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				c.String(http.StatusInternalServerError, err.Error())
				return
			}
			up.Files = append(up.Files, UploadedFile{
				FieldName:        field,
				Filename:         fh.Filename,
				ContentType:      fh.Header.Get("Content-Type"),
				TransferEncoding: fh.Header.Get("Content-Transfer-Encoding"),
				Content:          content,
			})
		}
	}
	s.addUpload(up)
	c.JSON(http.StatusOK, gin.H{"fields": len(up.Fields), "files": len(up.Files)})
}

func (s *FixtureServer) rawUpload(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	s.addUpload(Upload{
		Method:        c.Request.Method,
		ContentType:   c.GetHeader("Content-Type"),
		ContentLength: c.Request.ContentLength,
		Expect:        c.GetHeader("Expect"),
		Body:          body,
	})
	c.JSON(http.StatusOK, gin.H{"bytes": len(body)})
}

func (s *FixtureServer) addUpload(up Upload) {
	s.mu.Lock()
	s.uploads = append(s.uploads, up)
	s.mu.Unlock()
}
