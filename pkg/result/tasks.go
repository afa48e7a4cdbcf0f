package result

// Well-known task names as the leaderboard taxonomy spells them. Purely a
// convenience for benchmark authors; the authoritative taxonomy lives on
// the server side.
const (
	TaskImageClassification   = "Image Classification"
	TaskObjectDetection       = "Object Detection"
	TaskSemanticSegmentation  = "Semantic Segmentation"
	TaskLanguageModelling     = "Language Modelling"
	TaskMachineTranslation    = "Machine Translation"
	TaskQuestionAnswering     = "Question Answering"
	TaskSpeechRecognition     = "Speech Recognition"
	TaskImageGeneration       = "Image Generation"
	TaskPoseEstimation        = "Pose Estimation"
	TaskRecommendationSystems = "Recommendation Systems"
)
