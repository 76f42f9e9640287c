package controller

const (
	msgLoadActivitiesFailed = "Ocurrió un error al recuperar la lista de actividades"
	msgLoadUsersFailed      = "Ocurrió un error al recuperar la lista de usuarios"
	msgLoadAuditFailed      = "Ocurrió un error al recuperar la auditoría de actividades"

	msgSelectToDelete   = "Seleccione una actividad para eliminar"
	msgSelectToFinalize = "Seleccione una actividad para finalizar"
	msgSelectToEdit     = "Seleccione una actividad para editar"

	msgDeleted        = "Actividad eliminada con éxito!"
	msgDeleteFailed   = "Ocurrió un error al eliminar la actividad"
	msgModified       = "Actividad modificada con éxito!"
	msgFinalizeFailed = "Ocurrió un error al finalizar la actividad"
	msgCreated        = "Actividad creada con éxito!"
	msgSaveFailed     = "Ocurrió un error al guardar la actividad"
	msgDescRequired   = "La descripción es obligatoria"
	msgInvalidForm    = "Revise los datos de la actividad"

	msgBusy         = "Hay una operación en curso, espere a que termine"
	msgNotPermitted = "Acción no permitida para su rol"

	msgNoAdmins    = "No se encontraron administradores"
	msgNoExecutors = "No se encontraron ejecutores"
	msgNoUsers     = "No se encontraron usuarios"

	msgLoginMissingFields = "Debe ingresar todos los campos"
	msgLoginFailed        = "Error al autenticar. Verifique el usuario y la contraseña"
	msgSessionSaveFailed  = "No se pudo guardar la sesión"
)

var (
	deletePrompt = Prompt{
		Header:      "Confirmar eliminación",
		Message:     "¿Estás seguro de que quieres eliminar la actividad?",
		AcceptLabel: "Si",
		RejectLabel: "No",
	}
	finalizePrompt = Prompt{
		Header:      "Confirmar finalización",
		Message:     "¿Estás seguro de que quieres finalizar la actividad?",
		AcceptLabel: "Si",
		RejectLabel: "No",
	}
)
