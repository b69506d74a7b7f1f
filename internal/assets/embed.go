package assets

import (
	"embed"
	"strings"
)

//go:embed transcopy.example.yaml
//go:embed templates/*.txt
var Embedded embed.FS

// Nom de l'asset de config par défaut (chemin DANS Embedded)
const DefaultConfigAsset = "transcopy.example.yaml"

// DefaultTemplateAsset : modèle de prompt livré avec le binaire.
const DefaultTemplateAsset = "templates/default_prompt.txt"

// DefaultTemplate renvoie le modèle embarqué, sans saut de ligne final.
// Panique si l'asset manque : c'est une erreur de build, pas d'exécution.
func DefaultTemplate() string {
	b, err := Embedded.ReadFile(DefaultTemplateAsset)
	if err != nil {
		panic("assets: modèle par défaut manquant: " + err.Error())
	}
	return strings.TrimRight(string(b), "\r\n")
}
