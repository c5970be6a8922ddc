package payload

type UploadDocumentPayload struct {
	WorkflowKind string `json:"workflow_kind" form:"workflow_kind" validate:"required,oneof=single-signature multi-signature"`
}
