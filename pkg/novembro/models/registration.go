package models

// Registration represents one persisted sign-up row.
// The csv tags are the column headers of the registrations file.
type Registration struct {
	// ID is only populated by SQL-backed stores.
	ID            string `csv:"-" json:"id,omitempty"`
	Name          string `csv:"Nome" json:"nome"`
	Email         string `csv:"E-mail" json:"email"`
	Age           int    `csv:"Idade" json:"idade"`
	CPF           string `csv:"CPF" json:"cpf"`
	HealthCardID  string `csv:"Cartão SUS" json:"cartao_sus"`
	FamilyHistory string `csv:"Histórico Familiar" json:"historico_familiar"`
	// SubmittedAt is formatted as "2006-01-02 15:04:05".
	SubmittedAt string `csv:"Data Cadastro" json:"data_cadastro"`
}

// RegistrationHeader lists the registration columns in file order.
var RegistrationHeader = []string{
	"Nome", "E-mail", "Idade", "CPF", "Cartão SUS", "Histórico Familiar", "Data Cadastro",
}
