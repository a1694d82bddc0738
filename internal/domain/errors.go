package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session has not been started.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrQuestionNotFound indicates a question ID is not part of the bank.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidQuestion is returned for questions without exactly one correct answer.
	ErrInvalidQuestion = errors.New("question must have exactly one correct answer")
	// ErrNoQuestions indicates the book filter left nothing to ask.
	ErrNoQuestions = errors.New("no questions available for the selected books")
	// ErrInvalidBooks is returned for a book filter that is not a list of numbers.
	ErrInvalidBooks = errors.New("books must be a comma-separated list of numbers")
	// ErrGameEnded is returned when a finished session is asked for more questions.
	ErrGameEnded = errors.New("game already ended")
)
