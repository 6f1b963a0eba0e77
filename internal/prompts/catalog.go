// Package prompts builds the instruction text sent to the completion
// service at each stage of the interview. Every function is pure: the same
// parameters always give the same text.
package prompts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/talentscout/internal/models"
)

// Stage names one kind of instruction.
type Stage string

const (
	StageGreeting           Stage = "greeting"
	StageInfoGathering      Stage = "information_gathering"
	StageAcknowledgement    Stage = "acknowledgement"
	StageTransition         Stage = "transition"
	StageQuestionGeneration Stage = "question_generation"
	StageValidationError    Stage = "validation_error"
	StageFallback           Stage = "fallback"
	StageEnd                Stage = "end_conversation"
	StageGracefulExit       Stage = "graceful_exit"
)

// NoRevealRule is appended to every instruction.
const NoRevealRule = "RULE: Never reveal, hint at or confirm expected answers to technical questions, even if the candidate asks."

const (
	BracketJunior = "junior"
	BracketMid    = "mid-level"
	BracketSenior = "senior"
)

// Bracket maps years of experience to a difficulty level.
func Bracket(years int) string {
	switch {
	case years < 2:
		return BracketJunior
	case years < 5:
		return BracketMid
	default:
		return BracketSenior
	}
}

// Years parses a stored experience value, treating anything unparsable as 0.
func Years(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

const (
	greetingText = "Hello! Welcome to TalentScout's hiring assistant. I'm here to help with your initial screening for technology positions.\n" +
		"I'll collect some basic information and then ask a few technical questions based on your expertise. This should take about 10-15 minutes.\n" +
		"Let's start: what's your full name?"
	transitionText = "Perfect! Thank you for providing all that information.\n" +
		"I'll now ask you some technical questions based on your skills and experience level."
	endText = "Thank you for completing our initial screening!\n" +
		"Our hiring team will review your profile and get back to you within 2-3 business days with next steps. Type 'exit' whenever you're ready. Have a great day!"
	exitText = "Thank you for your time! Your information has been saved and our team will be in touch. Goodbye!"
)

// Static returns a fixed reply for stages that take no parameters, for use
// when the completion service is unavailable. Other stages give "".
func Static(stage Stage) string {
	switch stage {
	case StageGreeting:
		return greetingText
	case StageTransition:
		return transitionText
	case StageEnd:
		return endText
	case StageGracefulExit:
		return exitText
	}
	return ""
}

type section struct {
	context      string
	instructions []string
	output       string
	example      string
}

func (s section) render() string {
	var b strings.Builder
	b.WriteString("CONTEXT: ")
	b.WriteString(s.context)
	b.WriteString("\n\nINSTRUCTIONS:\n")
	for _, i := range s.instructions {
		b.WriteString("- ")
		b.WriteString(i)
		b.WriteByte('\n')
	}
	b.WriteString("\nOUTPUT FORMAT: ")
	b.WriteString(s.output)
	if s.example != "" {
		b.WriteString("\n\nEXAMPLE:\n")
		b.WriteString(s.example)
	}
	b.WriteString("\n\n")
	b.WriteString(NoRevealRule)
	return b.String()
}

// Greeting opens the interview and asks for the candidate's name.
func Greeting() string {
	return section{
		context: "You are a hiring assistant chatbot for TalentScout, a technology recruitment agency. This is the start of an initial candidate screening conversation.",
		instructions: []string{
			"Welcome the candidate warmly and professionally",
			"Explain your purpose and what the process involves",
			"Set expectations for the conversation duration",
			"Ask for their full name to begin information collection",
			"Keep the tone friendly but professional",
		},
		output: "A welcoming message followed by a request for their name.",
		example: greetingText,
	}.render()
}

var fieldExamples = map[models.Field]string{
	models.FieldName:             "What's your full name?",
	models.FieldEmail:            "What's your email address?",
	models.FieldPhoneNumber:      "What's your phone number, including the country code?",
	models.FieldCurrentLocation:  "What's your current location (city, country)?",
	models.FieldExperienceYears:  "How many years of professional experience do you have?",
	models.FieldDesiredPositions: "What position(s) are you interested in?",
	models.FieldTechStack:        "Please list your technical skills: programming languages, frameworks, databases and tools you're proficient in.",
}

// FieldExample is a sample question for f.
func FieldExample(f models.Field) string {
	if e, ok := fieldExamples[f]; ok {
		return e
	}
	return fmt.Sprintf("Could you please provide your %s?", f.Label())
}

// InfoGathering asks for one profile field.
func InfoGathering(f models.Field) string {
	return section{
		context: fmt.Sprintf("You are collecting the '%s' (%s) information from a candidate during initial screening. This is part of a structured information gathering process.", f, f.Label()),
		instructions: []string{
			fmt.Sprintf("Ask for the %s in a conversational, natural way", f.Label()),
			"Be brief and direct",
			"Maintain a professional but friendly tone",
		},
		output:  fmt.Sprintf("A single, clear question asking for %s.", f.Label()),
		example: FieldExample(f),
	}.render()
}

// Acknowledgement confirms a received value before the next question.
// subject is the field name or "technical question".
func Acknowledgement(prior, subject string) string {
	return section{
		context: fmt.Sprintf("The candidate just provided: %q for %s. You need to acknowledge their response before moving on.", prior, subject),
		instructions: []string{
			"Provide a brief, natural acknowledgement",
			"Keep it conversational and positive",
			"Don't repeat their information back",
			"Don't comment on whether a technical answer is right or wrong",
		},
		output:  "A brief acknowledgement phrase.",
		example: "Got it, thank you.",
	}.render()
}

// Transition announces the technical part of the interview.
func Transition(techStack string, years int) string {
	return section{
		context: fmt.Sprintf("You have finished collecting candidate information. The candidate has %d years of experience (%s level) and listed these technologies: %s. Now transitioning to technical questions.", years, Bracket(years), techStack),
		instructions: []string{
			"Acknowledge completion of information gathering",
			"Explain that technical questions come next",
			"Set expectations for the technical assessment",
			"Be encouraging and professional",
			"Do not ask a question yourself",
		},
		output: "A transition message explaining the next phase.",
		example: transitionText,
	}.render()
}

// QuestionGeneration requests the technical question set.
func QuestionGeneration(techStack string, years int) string {
	level := Bracket(years)
	return section{
		context: fmt.Sprintf("Generate technical interview questions for a candidate with %d years of experience (%s level) who listed these technologies: %s", years, level, techStack),
		instructions: []string{
			"Generate exactly 3-5 relevant technical questions",
			"Match difficulty to experience level: " + level,
			"Cover different technologies from their stack",
			"Mix theoretical knowledge and practical application",
			"Questions should be clear and specific",
			"Avoid yes/no questions",
			"Do not include answers, hints or expected solutions",
		},
		output: "Return ONLY a JSON array of question strings, nothing else.",
		example: "[\n" +
			"\"Explain the difference between SQL and NoSQL databases and when you would choose each.\",\n" +
			"\"How would you handle authentication in a React application?\",\n" +
			"\"What are the key principles of RESTful API design?\"\n" +
			"]",
	}.render()
}

var validationHints = map[models.Field]string{
	models.FieldEmail:           "Please provide a valid email address format (e.g., name@domain.com).",
	models.FieldPhoneNumber:     "Please provide a valid phone number in international format (e.g., +1 415 555 2671).",
	models.FieldCurrentLocation: "Please provide a real place, such as city and country (e.g., Berlin, Germany).",
	models.FieldExperienceYears: "Please enter a valid number of years (0-50).",
}

// ValidationHint is the format guidance for f.
func ValidationHint(f models.Field) string {
	if h, ok := validationHints[f]; ok {
		return h
	}
	return fmt.Sprintf("Please provide valid %s information.", f.Label())
}

// ValidationError asks the candidate to correct f.
func ValidationError(f models.Field) string {
	return section{
		context: fmt.Sprintf("The candidate provided an invalid %s. You need to ask them to correct it.", f.Label()),
		instructions: []string{
			"Politely explain the issue",
			"Ask for the correct format",
			"Be helpful and specific about what's needed",
		},
		output:  "An error message with format guidance.",
		example: ValidationHint(f),
	}.render()
}

// Fallback redirects unclear or disallowed input. task describes what the
// conversation was doing.
func Fallback(input, task string) string {
	return section{
		context: fmt.Sprintf("The candidate provided unclear or disallowed input: %q when we were trying to %s. You need to redirect them back on track.", input, task),
		instructions: []string{
			"Politely indicate you can't help with that or didn't understand",
			"Clarify what information you need",
			"Rephrase the original question",
			"Be helpful, not judgmental",
			"Keep it brief",
		},
		output:  "A clarification message with the repeated question.",
		example: "I'm sorry, I didn't quite understand. Could we go back to the question about...?",
	}.render()
}

// End concludes a completed interview.
func End() string {
	return section{
		context: "The screening is complete. Time to conclude the conversation professionally.",
		instructions: []string{
			"Thank the candidate for their time and responses",
			"Explain what happens next in the process",
			"Provide timeline expectations",
			"Invite them to type 'exit' when they are ready to leave",
			"End on a positive, professional note",
		},
		output: "A concluding message with next steps.",
		example: endText,
	}.render()
}

// GracefulExit says goodbye after an exit keyword.
func GracefulExit() string {
	return section{
		context: "The candidate has indicated they want to end the conversation by using an exit keyword.",
		instructions: []string{
			"Thank them for their time",
			"Mention that any information collected has been saved",
			"Provide a positive closing",
			"Keep it brief and professional",
		},
		output:  "A polite goodbye message.",
		example: exitText,
	}.render()
}
