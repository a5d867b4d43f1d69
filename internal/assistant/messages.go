package assistant

// Fixed user facing messages. Provider details never reach the user.
const (
	MsgEmptyQuery   = "Please provide a valid question."
	MsgOutOfScope   = "I can only help with insurance claim processes and savings concepts. Please ask a question about insurance claims, policies or savings."
	MsgInsufficient = "I could not find enough information. Please ask in another way."
	MsgCredential   = "The assistant is not configured correctly. Please ask the administrator to replace the API key."
	MsgQuota        = "The service is temporarily unavailable because of high demand. Please try again later."
	MsgUnavailable  = "The service is unavailable right now. Please try again later."
)
