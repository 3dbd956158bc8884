// SPDX-License-Identifier: AGPL-3.0-only

// Package tokenize drives the external scanner over whole documents the way
// an incremental parser does: it picks the token kinds the grammar would
// accept at each position, falls back to its own text and newline tokens when
// the scanner declines, and keeps per-line scanner states so that a document
// can be re-lexed from the line of an edit instead of from the start.
package tokenize

import (
	"sort"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/grafana/asciidoc-scanner/pkg/scanner"
	utillog "github.com/grafana/asciidoc-scanner/pkg/util/log"
)

var (
	// ErrNoProgress is returned when the token stream stops advancing.
	ErrNoProgress = errors.New("tokenizer made no progress")
	// ErrTooManyTokens is returned when a document exceeds the configured token limit.
	ErrTooManyTokens = errors.New("too many tokens")
)

// checkpoint is the scanner state at the start of a line.
type checkpoint struct {
	state []byte
	line  int
}

// Session tokenizes successive versions of one document. It is not safe for
// concurrent use.
type Session struct {
	cfg     Config
	scanner *scanner.Scanner
	logger  log.Logger
	metrics *Metrics
	sampler *utillog.Sampler

	checkpoints *lru.Cache[int, checkpoint]

	tokens []Token
	state  scanner.State
}

func NewSession(cfg Config, logger log.Logger, metrics *Metrics) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid tokenizer config")
	}
	s, err := scanner.New(cfg.Scanner)
	if err != nil {
		return nil, err
	}
	checkpoints, err := lru.New[int, checkpoint](cfg.CheckpointCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "create checkpoint cache")
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	return &Session{
		cfg:         cfg,
		scanner:     s,
		logger:      logger,
		metrics:     metrics,
		sampler:     utillog.NewSampler(cfg.RestoreWarningSampleRate),
		checkpoints: checkpoints,
	}, nil
}

// Tokens returns the token stream of the last tokenized document.
func (s *Session) Tokens() []Token {
	return s.tokens
}

// State returns the scanner state at the end of the last tokenized document.
func (s *Session) State() scanner.State {
	return s.state
}

// Tokenize tokenizes src from the start, discarding every checkpoint.
func (s *Session) Tokenize(src []byte) ([]Token, error) {
	s.checkpoints.Purge()
	return s.run(src, 0, 0, scanner.State{}, nil)
}

// Relex tokenizes src, a new version of the last tokenized document whose
// first editOffset bytes are unchanged. Tokenization resumes at the closest
// line start before the edit for which a scanner state was kept.
func (s *Session) Relex(src []byte, editOffset int) ([]Token, error) {
	resume, cp, ok := s.resumePoint(src, editOffset)
	if !ok {
		s.metrics.stateRestores.WithLabelValues(restoreMiss).Inc()
		level.Debug(s.logger).Log("msg", "no checkpoint before edit, tokenizing from the start", "edit_offset", editOffset)
		return s.Tokenize(src)
	}

	st, err := scanner.DecodeState(cp.state)
	if err != nil {
		s.metrics.stateRestores.WithLabelValues(restoreDropped).Inc()
		utillog.WarnSampled(s.logger, "restored scanner state was incomplete", s.sampler.WrapError(err), "offset", resume)
	} else {
		s.metrics.stateRestores.WithLabelValues(restoreHit).Inc()
	}

	for _, offset := range s.checkpoints.Keys() {
		if offset > resume {
			s.checkpoints.Remove(offset)
		}
	}

	// Zero-width tokens at the resume point are produced again by run.
	keep := sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].Start >= resume
	})
	prefix := append([]Token(nil), s.tokens[:keep]...)

	level.Debug(s.logger).Log("msg", "resuming tokenization", "offset", resume, "line", cp.line, "edit_offset", editOffset, "kept_tokens", keep)
	return s.run(src, resume, cp.line, st, prefix)
}

// resumePoint finds the latest checkpoint strictly before the edit. An edit
// at offset 0 can only resume from the start.
func (s *Session) resumePoint(src []byte, editOffset int) (int, checkpoint, bool) {
	best := -1
	for _, offset := range s.checkpoints.Keys() {
		if offset > len(src) || offset > editOffset || (offset == editOffset && offset > 0) {
			continue
		}
		if offset > best {
			best = offset
		}
	}
	if best <= 0 {
		return 0, checkpoint{}, false
	}
	cp, ok := s.checkpoints.Get(best)
	return best, cp, ok
}

func (s *Session) run(src []byte, offset, line int, st scanner.State, tokens []Token) ([]Token, error) {
	c := scanner.NewBufferCursor(src, offset)
	zeroWidthAt := -1

	emit := func(tok Token) error {
		if s.cfg.MaxTokens > 0 && len(tokens) >= s.cfg.MaxTokens {
			return errors.Wrapf(ErrTooManyTokens, "limit of %d reached at offset %d", s.cfg.MaxTokens, tok.Start)
		}
		tok.Line = line
		line += countLines(src[tok.Start:tok.End])
		tokens = append(tokens, tok)
		s.metrics.tokens.WithLabelValues(tok.Name).Inc()
		return nil
	}

	for offset < len(src) {
		lineStart := offset == 0 || isLineBreak(src[offset-1])
		if lineStart {
			s.checkpoints.Add(offset, checkpoint{state: st.Bytes(), line: line})
		}

		valid := validKinds(st, lineStart)
		if offset == zeroWidthAt {
			valid = withoutZeroWidth(valid)
		}

		before := c.Checkpoint()
		s.metrics.scanCalls.Inc()
		tok, next, ok := s.scanner.Scan(st, c, valid)
		if !ok {
			s.metrics.declined.Inc()
			name, end := fallback(src, offset)
			if err := emit(Token{Name: name, Start: offset, End: end}); err != nil {
				return s.finish(tokens, st, err)
			}
			c.Seek(end)
			offset = end
			continue
		}

		if tok.End <= offset {
			if offset == zeroWidthAt {
				return s.finish(tokens, st, errors.Wrapf(ErrNoProgress, "%s at offset %d", tok.Kind, offset))
			}
			zeroWidthAt = offset
		}
		if tok.Start > offset {
			// Indentation skipped by the scanner.
			if err := emit(Token{Name: TextToken, Start: offset, End: tok.Start}); err != nil {
				return s.finish(tokens, st, err)
			}
		}
		if err := emit(Token{Name: tok.Kind.String(), Kind: tok.Kind, External: true, Start: tok.Start, End: tok.End}); err != nil {
			return s.finish(tokens, st, err)
		}

		st = next
		// The scanner may have looked past the token end.
		c.Restore(before)
		c.Seek(tok.End)
		offset = tok.End
	}

	return s.finish(tokens, st, nil)
}

func (s *Session) finish(tokens []Token, st scanner.State, err error) ([]Token, error) {
	s.tokens = tokens
	s.state = st
	return tokens, err
}
