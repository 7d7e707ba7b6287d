package users

// Role é o nível de acesso do usuário; é o único eixo de autorização.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "gerente"
	RoleOperator Role = "operador"
)

// Action é uma operação sujeita à política de acesso.
type Action string

const (
	// ActionDeactivateRecord cobre o soft delete de registros de domínio
	// (animais, lotes, pastos, raças, touros, eventos, pesagens).
	ActionDeactivateRecord Action = "deactivate_record"
	// ActionManageUsers cobre criar usuários, alterar nível de acesso e desativar contas.
	ActionManageUsers Action = "manage_users"
	// ActionEditOwnProfile cobre editar os próprios dados (nome, email, senha).
	ActionEditOwnProfile Action = "edit_own_profile"
	// ActionEditOtherUser cobre editar campos não privilegiados de outro usuário.
	ActionEditOtherUser Action = "edit_other_user"
	// ActionWriteRecords cobre criar/ler/atualizar registros de domínio.
	ActionWriteRecords Action = "write_records"
)

// Tabela fixa papel -> ações permitidas.
var permissions = map[Role]map[Action]bool{
	RoleAdmin: {
		ActionDeactivateRecord: true,
		ActionManageUsers:      true,
		ActionEditOwnProfile:   true,
		ActionEditOtherUser:    true,
		ActionWriteRecords:     true,
	},
	RoleManager: {
		ActionDeactivateRecord: true,
		ActionEditOwnProfile:   true,
		ActionWriteRecords:     true,
	},
	RoleOperator: {
		ActionEditOwnProfile: true,
		ActionWriteRecords:   true,
	},
}

// Permitted responde se o papel pode executar a ação.
// Função pura: nunca muta estado, só serve de gate antes das mutações.
func Permitted(role Role, action Action) bool {
	return permissions[role][action]
}

// ValidRole responde se o valor é um nível de acesso conhecido.
func ValidRole(role Role) bool {
	_, ok := permissions[role]
	return ok
}
