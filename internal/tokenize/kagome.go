package tokenize

import (
	"fmt"
	"sync"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"horse.fit/lingomix/internal/langconfig"
)

// IPA dictionary top-level part-of-speech tags.
var ipaPOS = map[string]string{
	"名詞":   PosNoun,
	"動詞":   PosVerb,
	"形容詞":  PosAdjective,
	"副詞":   PosAdverb,
	"助詞":   PosParticle,
	"助動詞":  PosAuxiliaryVerb,
	"記号":   PosSymbol,
	"接続詞":  PosConjunction,
	"連体詞":  PosAdnominal,
	"接頭詞":  PosPrefix,
	"感動詞":  PosInterjection,
	"フィラー": PosFiller,
}

// KagomeSegmenter runs Japanese morphological analysis with the IPA
// dictionary. The dictionary is loaded on first use.
type KagomeSegmenter struct {
	once    sync.Once
	tok     *tokenizer.Tokenizer
	initErr error
}

func NewKagomeSegmenter() *KagomeSegmenter {
	return &KagomeSegmenter{}
}

func (s *KagomeSegmenter) load() (*tokenizer.Tokenizer, error) {
	s.once.Do(func() {
		tok, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
		if err != nil {
			s.initErr = fmt.Errorf("build kagome tokenizer: %w", err)
			return
		}
		s.tok = tok
	})
	return s.tok, s.initErr
}

func (s *KagomeSegmenter) Segment(text string, _ langconfig.Language) (occs []Occurrence, err error) {
	tok, err := s.load()
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			occs = nil
			err = fmt.Errorf("kagome tokenize panicked: %v", r)
		}
	}()

	tokens := tok.Tokenize(text)
	occs = make([]Occurrence, 0, len(tokens))
	for _, t := range tokens {
		if t.Class == tokenizer.DUMMY || t.Surface == "" {
			continue
		}
		occs = append(occs, Occurrence{
			Token:        t.Surface,
			Start:        t.Position,
			End:          t.Position + len(t.Surface),
			PartOfSpeech: kagomePOS(t.POS()),
		})
	}
	return occs, nil
}

func kagomePOS(features []string) string {
	if len(features) == 0 {
		return PosOther
	}
	if pos, ok := ipaPOS[features[0]]; ok {
		return pos
	}
	return PosOther
}
