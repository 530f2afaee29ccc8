package service

// Response and error messages returned to API callers. Clients match on
// this text, so entries are never reworded.
const (
	MsgInternalServerError = "Internal server error. Contact with the administrator"

	// Tickets.
	MsgTicketCreated       = "Ticket creado con éxito"
	MsgTicketStatusChanged = "Estado del ticket actualizado con éxito"
	MsgTicketAssigned      = "Técnico asignado al ticket con éxito"
	MsgTicketRemoved       = "Ticket eliminado con éxito"
	MsgTicketRestored      = "Ticket restaurado con éxito"
	ErrTicketNotFound      = "Ticket not found"
	ErrTicketError         = "Oops... There were problems creating the ticket. Please try again later"
	ErrTicketNotUpdated    = "Oops... There was an error updating the ticket. Please try again later."
	ErrTicketNotDeleted    = "Oops... There was an error deleting the ticket. Please try again later."
	ErrTicketNotRestored   = "Oops... There was an error restoring the ticket. Please try again later."

	// Categories.
	MsgCategoryCreated         = "Categoría creada con éxito"
	MsgSubcategoryCreated      = "Subcategoría creada con éxito"
	MsgCategoryUpdated         = "Categoría actualizada con éxito"
	MsgSubcategoryUpdated      = "Subcategoría actualizada con éxito"
	MsgCategoryActivated       = "Categoria o subcategoria activada con éxito"
	MsgCategoryDeactivated     = "Categoria o subcategoria desactivada con éxito"
	MsgCategoryRemoved         = "Categoría eliminada con éxito"
	MsgSubcategoryRemoved      = "Subcategoría eliminada con éxito"
	MsgCategoryRestored        = "Categoría o subcategoria restaurada con éxito"
	MsgSubcategoryRestored     = "Subcategoria restaurada con éxito"
	ErrCategoryNotFound        = "Category not found"
	ErrSubcategoryNotFound     = "Subcategory not found"
	ErrCategoryNotExist        = "Category not exists"
	ErrCategoryAlreadyExist    = "Not possible run operation, category already exist"
	ErrSubcategoryAlreadyExist = "Not possible run operation, subcategory already exist"
	ErrCategoryNotActive       = "Category not found or not active"
	ErrCategoryError           = "Oops... There were problems creating or editing the category. Please try again later"
	ErrCategoryNotDeleted      = "Oops... There was an error deleting the category. Please try again later."
	ErrCategoryNotRestored     = "Oops... There was an error restoring the category. Please try again later."
	ErrInvalidCategoryType     = "Invalid type"

	// Priorities.
	MsgPriorityCreated      = "Prioridad creada con éxito"
	MsgPriorityUpdated      = "Prioridad actualizada con éxito"
	MsgPriorityActivated    = "Prioridad activada con éxito"
	MsgPriorityDeactivated  = "Prioridad desactivada con éxito"
	MsgPriorityRemoved      = "Prioridad eliminada con éxito"
	MsgPriorityRestored     = "Prioridad restaurada con éxito"
	ErrPriorityNotFound     = "Priority not found"
	ErrPriorityAlreadyExist = "Not possible run operation, priority already exist"
	ErrPriorityError        = "Oops... There were problems creating or editing the priority. Please try again later"
	ErrPriorityNotDeleted   = "Oops... There was an error deleting the priority. Please try again later."
	ErrPriorityNotRestored  = "Oops... There was an error restoring the priority. Please try again later."
	ErrInvalidStatus        = "Status is invalid"

	// Roles.
	MsgRoleCreated       = "Rol creado con éxito"
	MsgRoleUpdated       = "Rol actualizado con éxito"
	MsgRoleRemoved       = "Rol eliminado con éxito"
	MsgRoleRestored      = "Rol restaurado con éxito"
	ErrRoleNotFound      = "Rol not found"
	ErrRoleAlreadyExists = "Not possible run operation, rol already exist"
	ErrRoleError         = "Oops... There were problems creating or editing the rol. Please try again later"
	ErrRoleNotDeleted    = "Ups... Hubo un error al borrar el rol. Por favor, inténtelo de nuevo más tarde"
	ErrRoleNotRestored   = "Oops... There was an error restoring the rol. Please try again later."

	// Users.
	MsgUserCreated             = "Usuario creado con éxito"
	MsgUserUpdated             = "Usuario actualizado con éxito"
	MsgUserRemoved             = "Usuario eliminado con éxito"
	MsgUserRestored            = "Usuario restaurado con éxito"
	MsgUserValidated           = "Usuario validado con éxito"
	ErrUserNotFound            = "User not found"
	ErrUserAlreadyExist        = "Not possible run operation, user already exist"
	ErrUserError               = "Oops... There were problems creating or editing the user. Please try again later"
	ErrUserNotDeleted          = "Oops... There was an error deleting the user. Please try again later."
	ErrUserNotRestored         = "Oops... There was an error restoring the user. Please try again later."
	ErrUserPasswordNotMatch    = "Passwords do not match"
	ErrUserPasswordNotMatchOld = "The old password is incorrect"

	// Auth.
	MsgForgotPasswordSent = "Se ha enviado un correo a su dirección para recuperar su contraseña."
	MsgPasswordChanged    = "Se cambio la contraseña correctamente."
	ErrAuthUserNotFound   = "User not found"
	ErrAuthUserNotActive  = "User is not active"
	ErrAuthInvalidLogin   = "Password or email invalid"
	ErrAuthUserBlocked    = "User blocked after too many failed attempts. Contact with the administrator"
	ErrAuthTokenInvalid   = "Token inválido"
	ErrAuthTokenUsed      = "Token already used"
	ErrAuthMailDifferent  = "The email does not match the token"
	ErrAuthRefreshInvalid = "Token invalido"
	ErrAuthTokenNotFound  = "Token not found"
)
