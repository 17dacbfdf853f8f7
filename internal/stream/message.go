package stream

import (
	"encoding/json"
	"time"

	"github.com/mcoot/wordgrid-go/internal/model"
)

// Message is the JSON frame sent to stream clients
type Message struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// LetterData is the payload of letter_placed and letter_removed
type LetterData struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Letter  string `json:"letter"`
	Dropped string `json:"dropped,omitempty"`
}

// RackData is the payload of rack-changing events
type RackData struct {
	Rack        string `json:"rack"`
	RedrawsLeft int    `json:"redraws_left"`
	Dropped     string `json:"dropped,omitempty"`
}

// WordData describes one accepted word
type WordData struct {
	Word       string   `json:"word"`
	Score      int      `json:"score"`
	Positions  [][2]int `json:"positions"`
	Horizontal bool     `json:"horizontal"`
}

// WordsFoundData is the payload of words_found
type WordsFoundData struct {
	Words      []WordData `json:"words"`
	TotalScore int        `json:"total_score"`
	WordCount  int        `json:"word_count"`
}

// ResultData is the payload of game_won and session_ended
type ResultData struct {
	Score     int  `json:"score"`
	WordCount int  `json:"word_count"`
	Won       bool `json:"won"`
}

// NewMessage converts a session event into its wire form
func NewMessage(event model.Event) Message {
	msg := Message{
		Type:      string(event.Type),
		SessionID: string(event.SessionID),
		Timestamp: event.Timestamp,
	}

	switch p := event.Payload.(type) {
	case model.LetterPayload:
		msg.Payload = LetterData{Row: p.Position.Row, Col: p.Position.Col, Letter: string(p.Letter), Dropped: p.Dropped}
	case model.RackPayload:
		msg.Payload = RackData{Rack: p.Rack, RedrawsLeft: p.RedrawsLeft, Dropped: p.Dropped}
	case model.WordsFoundPayload:
		words := make([]WordData, len(p.Words))
		for i, w := range p.Words {
			words[i] = NewWordData(w)
		}
		msg.Payload = WordsFoundData{Words: words, TotalScore: p.TotalScore, WordCount: p.WordCount}
	case model.GameWonPayload:
		msg.Payload = ResultData{Score: p.Score, WordCount: p.WordCount, Won: true}
	case model.SessionEndedPayload:
		msg.Payload = ResultData{Score: p.Score, WordCount: p.WordCount, Won: p.Won}
	default:
		msg.Payload = p
	}
	return msg
}

// NewWordData converts an accepted word into its wire form
func NewWordData(w model.FoundWord) WordData {
	positions := make([][2]int, len(w.Positions))
	for i, p := range w.Positions {
		positions[i] = [2]int{p.Row, p.Col}
	}
	return WordData{
		Word:       w.Word,
		Score:      w.Score,
		Positions:  positions,
		Horizontal: w.Horizontal,
	}
}

// frame is a message ready for delivery; each transport wraps data in
// its own framing
type frame struct {
	event string
	data  []byte
}

func encode(msg Message) (frame, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return frame{}, err
	}
	return frame{event: msg.Type, data: data}, nil
}
