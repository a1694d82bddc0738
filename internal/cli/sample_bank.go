package cli

import "trivia-service/internal/domain"

// sampleBank is served when no Postgres bank or question file is configured.
func sampleBank() domain.Bank {
	return domain.Bank{
		ID: "hp",
		Questions: []domain.Question{
			{
				ID: 1, Book: 1,
				Question: "Which house did the Sorting Hat first consider for Harry?",
				Hint:     "Salazar would have been proud.",
				Answers:  map[string]bool{"Slytherin": true, "Ravenclaw": false, "Hufflepuff": false, "Gryffindor": false},
			},
			{
				ID: 2, Book: 1,
				Question: "What is the name of Hagrid's three-headed dog?",
				Hint:     "Music puts him to sleep.",
				Answers:  map[string]bool{"Fluffy": true, "Fang": false, "Norbert": false, "Buckbeak": false},
			},
			{
				ID: 3, Book: 2,
				Question: "What creature lives in the Chamber of Secrets?",
				Hint:     "Its stare is deadly.",
				Answers:  map[string]bool{"A basilisk": true, "An acromantula": false, "A dragon": false, "A hippogriff": false},
			},
			{
				ID: 4, Book: 3,
				Question: "What form does Harry's Patronus take?",
				Hint:     "Prongs.",
				Answers:  map[string]bool{"A stag": true, "A doe": false, "An otter": false, "A phoenix": false},
			},
			{
				ID: 5, Book: 3,
				Question: "Who betrayed Harry's parents to Voldemort?",
				Hint:     "He spent twelve years as a rat.",
				Answers:  map[string]bool{"Peter Pettigrew": true, "Sirius Black": false, "Remus Lupin": false, "Severus Snape": false},
			},
			{
				ID: 6, Book: 4,
				Question: "Which school does Viktor Krum attend?",
				Hint:     "It sails to Hogwarts.",
				Answers:  map[string]bool{"Durmstrang": true, "Beauxbatons": false, "Ilvermorny": false, "Castelobruxo": false},
			},
			{
				ID: 7, Book: 5,
				Question: "What does Umbridge make Harry write in detention?",
				Hint:     "The quill uses his own blood.",
				Answers:  map[string]bool{"I must not tell lies": true, "I will obey the rules": false, "Magic is might": false, "I am sorry": false},
			},
			{
				ID: 8, Book: 6,
				Question: "Who is the Half-Blood Prince?",
				Hint:     "His mother was Eileen Prince.",
				Answers:  map[string]bool{"Severus Snape": true, "Tom Riddle": false, "Horace Slughorn": false, "Albus Dumbledore": false},
			},
			{
				ID: 9, Book: 7,
				Question: "Which Horcrux is destroyed with the sword of Gryffindor in the frozen pool?",
				Hint:     "Ron does the honours.",
				Answers:  map[string]bool{"Slytherin's locket": true, "Hufflepuff's cup": false, "Ravenclaw's diadem": false, "Tom Riddle's diary": false},
			},
			{
				ID: 10, Book: 7,
				Question: "Who kills Bellatrix Lestrange?",
				Hint:     "Not my daughter!",
				Answers:  map[string]bool{"Molly Weasley": true, "Neville Longbottom": false, "Ginny Weasley": false, "Minerva McGonagall": false},
			},
		},
	}
}
