package transfersvc

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/yourname/lanshare/internal/models"
)

// parserState — явное состояние автомата разбора multipart-потока.
type parserState int

const (
	stateSeekingPart parserState = iota
	stateReadingHeaders
	stateReadingFieldValue
	stateReadingFileData
	stateDone
)

// fieldIDName и fileFieldName — единственные части формы, которые нас интересуют;
// все остальные части пропускаются без ошибки.
const (
	fieldIDName   = "fileId"
	fileFieldName = "file"
)

// dataLookbackSlack — запас сверх длины boundary, который не сбрасывается в sink,
// пока маркер не найден: граница могла быть разрезана на стыке чанков.
const dataLookbackSlack = 10

var (
	rePartName     = regexp.MustCompile(`name="([^"]*)"`)
	rePartFilename = regexp.MustCompile(`filename="([^"]*)"`)

	crlf       = []byte("\r\n")
	headersEnd = []byte("\r\n\r\n")
)

// sinkOpener открывает приёмник для байтов файловой части.
type sinkOpener func(filename string) (io.WriteCloser, error)

// streamParser инкрементально разбирает multipart/form-data из последовательности
// чанков произвольного размера, не удерживая тело запроса в памяти целиком.
// Байты файловой части уходят в sink по мере поступления.
type streamParser struct {
	boundary []byte
	openSink sinkOpener

	state    parserState
	buf      []byte
	fieldID  string
	hasID    bool
	filename string
	sink     io.WriteCloser
	written  int64
}

// newStreamParser принимает boundary без префикса "--" (как он объявлен в Content-Type).
func newStreamParser(boundary string, open sinkOpener) *streamParser {
	return &streamParser{
		boundary: []byte("--" + boundary),
		openSink: open,
		state:    stateSeekingPart,
	}
}

// feed добавляет очередной чанк и прокручивает автомат до тех пор,
// пока в буфере есть что обрабатывать.
func (p *streamParser) feed(chunk []byte) error {
	p.buf = append(p.buf, chunk...)

	for {
		switch p.state {
		case stateSeekingPart:
			idx := bytes.Index(p.buf, p.boundary)
			if idx < 0 {
				// Храним хвост, в котором ещё может прятаться начало boundary.
				if tail := len(p.boundary) - 1; len(p.buf) > tail {
					p.buf = append(p.buf[:0:0], p.buf[len(p.buf)-tail:]...)
				}
				return nil
			}
			rest := p.buf[idx+len(p.boundary):]
			if len(rest) < 2 {
				// Не хватает байтов, чтобы отличить закрывающий маркер "--".
				p.buf = append(p.buf[:0:0], p.buf[idx:]...)
				return nil
			}
			if rest[0] == '-' && rest[1] == '-' {
				p.buf = nil
				p.state = stateDone
				continue
			}
			p.buf = rest
			if bytes.HasPrefix(p.buf, crlf) {
				p.buf = p.buf[2:]
			}
			p.state = stateReadingHeaders

		case stateReadingHeaders:
			end := bytes.Index(p.buf, headersEnd)
			if end < 0 {
				return nil
			}
			head := string(p.buf[:end])
			p.buf = p.buf[end+len(headersEnd):]

			name := firstMatch(rePartName, head)
			filename := firstMatch(rePartFilename, head)
			switch {
			case name == fieldIDName && filename == "":
				p.state = stateReadingFieldValue
			case name == fileFieldName && filename != "":
				sink, err := p.openSink(filename)
				if err != nil {
					return err
				}
				p.sink = sink
				p.filename = filename
				p.written = 0
				p.state = stateReadingFileData
			default:
				// Незнакомые части формы молча пропускаем.
				p.state = stateSeekingPart
			}

		case stateReadingFieldValue:
			idx := bytes.Index(p.buf, p.boundary)
			if idx < 0 {
				return nil
			}
			val := bytes.TrimSuffix(p.buf[:idx], crlf)
			p.fieldID = strings.TrimSpace(string(val))
			p.hasID = true
			p.buf = p.buf[idx:]
			p.state = stateSeekingPart

		case stateReadingFileData:
			idx := bytes.Index(p.buf, p.boundary)
			if idx < 0 {
				// Маркера нет: сбрасываем всё, кроме хвоста, который мог бы
				// оказаться началом разрезанного boundary.
				keep := len(p.boundary) + dataLookbackSlack
				if len(p.buf) <= keep {
					return nil
				}
				flush := p.buf[:len(p.buf)-keep]
				if _, err := p.sink.Write(flush); err != nil {
					return fmt.Errorf("write sink: %w", err)
				}
				p.written += int64(len(flush))
				p.buf = append(p.buf[:0:0], p.buf[len(p.buf)-keep:]...)
				return nil
			}
			data := bytes.TrimSuffix(p.buf[:idx], crlf)
			if _, err := p.sink.Write(data); err != nil {
				return fmt.Errorf("write sink: %w", err)
			}
			p.written += int64(len(data))
			if err := p.sink.Close(); err != nil {
				return fmt.Errorf("close sink: %w", err)
			}
			p.sink = nil
			p.buf = p.buf[idx:]
			p.state = stateSeekingPart

		case stateDone:
			return nil
		}
	}
}

// finish валидирует итоговое состояние после того, как потреблено ровно
// contentLength байт. Открытый sink означает, что файловая часть оборвана.
func (p *streamParser) finish() error {
	if p.sink != nil {
		_ = p.sink.Close()
		p.sink = nil
		return fmt.Errorf("file part not terminated: %w", models.ErrIncompleteUpload)
	}
	return nil
}

// abort закрывает sink, если разбор прерван посреди файловой части.
func (p *streamParser) abort() {
	if p.sink != nil {
		_ = p.sink.Close()
		p.sink = nil
	}
}

func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
