package handler

// Export for testing
type CreateAlertResponse = createAlertResponse
type ScanResponse = scanResponse
type SubscribeResponse = subscribeResponse
type BriefingResponse = briefingResponse

var WriteServiceError = writeServiceError
var IDToString = idToString
