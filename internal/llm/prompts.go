package llm

import "strings"

// The five instruction templates, written for Falcon-style models that honor
// >>TOKEN<< section markers. Each takes the conversation (or transcription)
// through a single placeholder; nothing else in the prompt varies at runtime.

const extractionTemplate = `
>>INTRODUCTION<<
As an AI expert assistant, analyze the provided conversation to directly extract specific information. Format this information into a structured JSON object following the guidelines below. Exclude any text that is not part of the JSON object.

>>DOMAIN<<
Conversation Transcript:
{conversation}

>>QUESTION<<
Construct a JSON object based on the conversation details. Include the following fields:
- **Name**: The full name(s) of the individual(s) involved.
- **Email**: The email address(es) cited.
- **Phone Number**: Any phone number(s) provided.
- **Location**: Details of any specific locations related to the issue or service.
- **Department**: The department or entity involved, if mentioned.
- **Issue**: A succinct description of the primary issue(s) discussed.
- **Service**: The specific service(s) referenced in relation to the issue.
- **Additional Information**: Other pertinent details or stakeholders mentioned.
- **Detailed Description**: An in-depth summary of the concern or request, including desired outcomes, if any.

>>ANSWER<<
Ensure the output is a clean JSON object:
{
    "name": "",
    "email": "",
    "phone_number": "",
    "location": "",
    "department": "",
    "issue": "",
    "service": "",
    "additional_information": "",
    "detailed_description": ""
}
`

const audioExtractionTemplate = `
>>INTRODUCTION<<
As an AI expert assistant, analyze the provided audio transcription to directly extract specific information. The transcription may contain recognition noise; rely only on what is actually present. Format the information into a structured JSON object and exclude any text that is not part of the JSON object.

>>DOMAIN<<
Audio Transcription:
{transcription}

>>QUESTION<<
Construct a JSON object based on the transcription details. Include the following fields:
- **Name**: The full name(s) of the individual(s) involved.
- **Email**: The email address(es) cited.
- **Phone Number**: Any phone number(s) provided.
- **Location**: Details of any specific locations related to the issue or service.
- **Department**: The department or entity involved, if mentioned.
- **Issue**: A succinct description of the primary issue(s) discussed.
- **Service**: The specific service(s) referenced in relation to the issue.
- **Additional Information**: Other pertinent details or stakeholders mentioned.
- **Detailed Description**: An in-depth summary of the concern or request, including desired outcomes, if any.

>>ANSWER<<
Ensure the output is a clean JSON object:
{
    "name": "",
    "email": "",
    "phone_number": "",
    "location": "",
    "department": "",
    "issue": "",
    "service": "",
    "additional_information": "",
    "detailed_description": ""
}
`

const intentTemplate = `
>>INTRODUCTION<<
As an AI expert assistant, you are tasked to analyze the provided conversation and classify the intent based on the dialogue. Identify the primary intent of the conversation from the list provided below and return only the most relevant category as a single line of text.

>>DOMAIN<<
Conversation Transcript:
{conversation}

>>QUESTION<<
Which single category best describes the intent of the conversation? Choose one:
- Accusation
- Booking
- Information Request
- General Commentary
- Complaint
- Compliment

>>ANSWER<<
[Your single-category answer here without additional comments or explanations.]
`

const sentimentTemplate = `
>>INTRODUCTION<<
As an AI expert assistant, carefully analyze the sentiment of the provided conversation. Your task is to determine if the overall tone is positive, negative, or neutral.

>>DOMAIN<<
Conversation Transcript:
{conversation}

>>QUESTION<<
What is the overall sentiment of the conversation? Provide your analysis based on the tone and content of the discussion.

>>ANSWER<<
The sentiment of the conversation is:
[Positive, Negative, Neutral]
`

const summaryTemplate = `
>>INTRODUCTION<<
As an AI, your task is to condense the provided conversation into a summary that could fit within a tweet. This summary should capture the key elements of the dialogue succinctly, like a highlight or a headline.

>>DOMAIN<<
Conversation Transcript:
{conversation}

>>QUESTION<<
Produce a summary that encapsulates the core of the conversation in no more than 280 characters. This summary should be direct and to the point, effectively conveying the main issues or points discussed as if it were a tweet.

>>ANSWER<<
The tweet-like summary of the conversation is:
[A concise, direct encapsulation, not exceeding 280 characters.]
`

func ExtractionPrompt(conversation string) string {
	return strings.ReplaceAll(extractionTemplate, "{conversation}", conversation)
}

func AudioExtractionPrompt(transcription string) string {
	return strings.ReplaceAll(audioExtractionTemplate, "{transcription}", transcription)
}

func IntentPrompt(conversation string) string {
	return strings.ReplaceAll(intentTemplate, "{conversation}", conversation)
}

func SentimentPrompt(conversation string) string {
	return strings.ReplaceAll(sentimentTemplate, "{conversation}", conversation)
}

func SummaryPrompt(conversation string) string {
	return strings.ReplaceAll(summaryTemplate, "{conversation}", conversation)
}
