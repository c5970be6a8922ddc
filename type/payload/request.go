package payload

type InitiateRequestPayload struct {
	DocumentHash string   `json:"document_hash" validate:"required,len=64,hexadecimal"`
	SignerIds    []string `json:"signer_ids" validate:"required,min=1,dive,required"`
}

type SignRequestPayload struct {
	SignerId  string `json:"signer_id" validate:"required"`
	Signature string `json:"signature" validate:"required,base64"`
}

type RejectRequestPayload struct {
	SignerId string `json:"signer_id" validate:"required"`
}
