package normalize

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/plsqlnorm/plsqlnorm/internal/cache"
	"github.com/plsqlnorm/plsqlnorm/internal/header"
	"github.com/plsqlnorm/plsqlnorm/internal/scanner"
)

// Classification holds the derived predicates for one source buffer.
type Classification struct {
	SQL        bool   `json:"sql" yaml:"sql"`
	Wrapped    bool   `json:"wrapped" yaml:"wrapped"`
	Wrappable  bool   `json:"wrappable" yaml:"wrappable"`
	ObjectType string `json:"object_type,omitempty" yaml:"object_type,omitempty"`
	ObjectName string `json:"object_name,omitempty" yaml:"object_name,omitempty"`
}

// Classify derives the is_sql / is_wrapped / is_wrappable predicates. It
// never fails: anything that would be a scan or declaration error reports as
// all-false.
func Classify(src string) Classification {
	src = strings.ReplaceAll(src, "\r", "")

	spans, err := scanner.Scan(src)
	if err != nil {
		return Classification{}
	}
	h, body, err := header.Extract(spans)
	if err != nil {
		return Classification{}
	}
	if err := checkSingleObject(body); err != nil {
		return Classification{}
	}
	return Classification{
		SQL:        true,
		Wrapped:    h.Terminator == header.Wrapped,
		Wrappable:  true,
		ObjectType: string(h.ObjectType),
		ObjectName: h.QualifiedName(),
	}
}

// IsSQL reports whether src is a single supported CREATE object.
func IsSQL(src string) bool { return Classify(src).SQL }

// IsWrapped reports whether src carries the wrapped envelope declaration.
func IsWrapped(src string) bool { return Classify(src).Wrapped }

// IsWrappable reports whether src can be handed to the external wrap tool.
func IsWrappable(src string) bool { return Classify(src).Wrappable }

// Classifier memoizes Classify results by content hash. Classify is pure
// and the backing cache is goroutine safe, so a Classifier may be shared
// across goroutines.
type Classifier struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewClassifier wraps Classify with the given cache. A nil cache disables
// memoization.
func NewClassifier(c cache.Cache, ttl time.Duration) *Classifier {
	return &Classifier{cache: c, ttl: ttl}
}

// Classify returns the cached classification for src, computing and storing
// it on a miss.
func (c *Classifier) Classify(src string) Classification {
	if c == nil || c.cache == nil {
		return Classify(src)
	}
	key := cache.ContentKey([]byte(src))
	if data, ok := c.cache.Get(key); ok {
		var cl Classification
		if err := json.Unmarshal(data, &cl); err == nil {
			return cl
		}
	}
	cl := Classify(src)
	if data, err := json.Marshal(cl); err == nil {
		_ = c.cache.Set(key, data, c.ttl)
	}
	return cl
}
